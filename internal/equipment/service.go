package equipment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
)

// Service handles equipment business logic.
type Service struct {
	repo   Repository
	audit  audit.Recorder
	logger *slog.Logger
}

func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  recorder,
		logger: logger,
	}
}

func (s *Service) List(filter ListFilter) ([]*Equipment, error) {
	items, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err)
		return nil, internal.NewInternalError("failed to list equipment", err)
	}
	return items, nil
}

func (s *Service) Get(id int64) (*Equipment, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *Service) Create(identity *internal.Identity, dto UpsertEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &Equipment{
		Name:         dto.Name,
		Category:     dto.Category,
		SerialNumber: dto.SerialNumber,
		Condition:    ConditionGood,
		Status:       StatusAvailable,
		RoomID:       dto.RoomID,
		Description:  dto.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if dto.Condition != "" {
		item.Condition, _ = ParseCondition(dto.Condition)
	}
	if dto.Status != "" {
		item.Status, _ = ParseStatus(dto.Status)
	}

	if err := s.repo.Create(item); err != nil {
		s.logger.Error("failed to create equipment", "error", err)
		return nil, internal.NewInternalError("failed to create equipment", err)
	}

	s.recordAction(identity, audit.ActionEquipmentCreated, fmt.Sprintf("equipment %q created", item.Name))
	s.logger.Info("equipment created", "equipment_id", item.ID, "user_id", identity.UserID)
	return item, nil
}

func (s *Service) Update(identity *internal.Identity, id int64, dto UpsertEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	item.Name = dto.Name
	item.Category = dto.Category
	item.SerialNumber = dto.SerialNumber
	item.RoomID = dto.RoomID
	item.Description = dto.Description
	if dto.Condition != "" {
		item.Condition, _ = ParseCondition(dto.Condition)
	}
	if dto.Status != "" {
		item.Status, _ = ParseStatus(dto.Status)
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(item); err != nil {
		s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
		return nil, internal.NewInternalError("failed to update equipment", err)
	}

	s.logger.Info("equipment updated", "equipment_id", id, "user_id", identity.UserID)
	return item, nil
}

// Delete removes a unit unless open borrowings or maintenance still
// reference it.
func (s *Service) Delete(identity *internal.Identity, id int64) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return ErrNotFound
	}

	if busy, err := s.repo.HasOpenBorrowings(id); err != nil {
		return internal.NewInternalError("failed to check borrowings", err)
	} else if busy {
		return ErrInUse
	}

	if busy, err := s.repo.HasOpenMaintenance(id); err != nil {
		return internal.NewInternalError("failed to check maintenance", err)
	} else if busy {
		return ErrInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete equipment", "error", err, "equipment_id", id)
		return internal.NewInternalError("failed to delete equipment", err)
	}

	s.recordAction(identity, audit.ActionEquipmentDeleted, fmt.Sprintf("equipment %q deleted", item.Name))
	s.logger.Info("equipment deleted", "equipment_id", id, "user_id", identity.UserID)
	return nil
}

func (s *Service) recordAction(identity *internal.Identity, action, description string) {
	entry := &audit.Entry{
		UserID:      &identity.UserID,
		ActionType:  action,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.audit.Record(entry); err != nil {
		s.logger.Error("failed to write audit entry", "error", err, "action", action)
	}
}
