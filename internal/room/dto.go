package room

import (
	"strings"

	"github.com/maulanaar/labtrack/internal"
)

type UpsertRoomDTO struct {
	Name     string
	Building string
	Capacity int
	Status   string
}

func (dto UpsertRoomDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(dto.Name) == "" {
		errs.Add("name", "name is required")
	}
	if strings.TrimSpace(dto.Building) == "" {
		errs.Add("building", "building is required")
	}
	if dto.Capacity < 0 {
		errs.Add("capacity", "capacity cannot be negative")
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
