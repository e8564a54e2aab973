package equipment

import (
	"strings"

	"github.com/maulanaar/labtrack/internal"
)

type UpsertEquipmentDTO struct {
	Name         string
	Category     string
	SerialNumber string
	Condition    string
	Status       string
	RoomID       *int64
	Description  string
}

func (dto UpsertEquipmentDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(dto.Name) == "" {
		errs.Add("name", "name is required")
	} else if len(dto.Name) > 150 {
		errs.Add("name", "name must be at most 150 characters")
	}

	if strings.TrimSpace(dto.Category) == "" {
		errs.Add("category", "category is required")
	}

	if dto.Condition != "" {
		if _, err := ParseCondition(dto.Condition); err != nil {
			errs.Add("condition", "condition is not valid")
		}
	}

	if dto.Status != "" {
		if _, err := ParseStatus(dto.Status); err != nil {
			errs.Add("status", "status is not valid")
		}
	}

	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}
