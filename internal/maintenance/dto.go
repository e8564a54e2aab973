package maintenance

import (
	"strings"

	"github.com/maulanaar/labtrack/internal"
)

type ReportMaintenanceDTO struct {
	EquipmentID int64
	Description string
}

func (dto ReportMaintenanceDTO) Validate() error {
	var errs internal.ValidationErrors

	if dto.EquipmentID <= 0 {
		errs.Add("equipment_id", "equipment is required")
	}
	description := strings.TrimSpace(dto.Description)
	if description == "" {
		errs.Add("description", "description is required")
	} else if len(description) > 1000 {
		errs.Add("description", "description must be at most 1000 characters")
	}

	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

type AssignMaintenanceDTO struct {
	TechnicianID int64
}

func (dto AssignMaintenanceDTO) Validate() error {
	var errs internal.ValidationErrors
	if dto.TechnicianID <= 0 {
		errs.Add("technician_id", "technician is required")
	}
	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}
