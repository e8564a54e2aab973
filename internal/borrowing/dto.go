package borrowing

import (
	"strings"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

type RequestBorrowingDTO struct {
	EquipmentID int64
	Purpose     string
}

func (dto RequestBorrowingDTO) Validate() error {
	var errs internal.ValidationErrors

	if dto.EquipmentID <= 0 {
		errs.Add("equipment_id", "equipment is required")
	}
	purpose := strings.TrimSpace(dto.Purpose)
	if purpose == "" {
		errs.Add("purpose", "purpose is required")
	} else if len(purpose) > 500 {
		errs.Add("purpose", "purpose must be at most 500 characters")
	}

	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

type ApproveBorrowingDTO struct {
	DueDate time.Time
}

func (dto ApproveBorrowingDTO) Validate() error {
	var errs internal.ValidationErrors
	if dto.DueDate.IsZero() {
		errs.Add("due_date", "due date is required")
	} else if dto.DueDate.Before(time.Now()) {
		errs.Add("due_date", "due date cannot be in the past")
	}
	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

type RejectBorrowingDTO struct {
	Reason string
}

func (dto RejectBorrowingDTO) Validate() error {
	var errs internal.ValidationErrors
	if strings.TrimSpace(dto.Reason) == "" {
		errs.Add("reason", "reason is required when rejecting a request")
	}
	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}
