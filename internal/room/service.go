package room

import (
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(filter ListFilter) ([]*Room, error) {
	rooms, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list rooms", "error", err)
		return nil, internal.NewInternalError("failed to list rooms", err)
	}
	return rooms, nil
}

func (s *Service) Get(id int64) (*Room, error) {
	rm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return rm, nil
}

func (s *Service) Create(dto UpsertRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rm := &Room{
		Name:      dto.Name,
		Building:  dto.Building,
		Capacity:  dto.Capacity,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if dto.Status != "" {
		rm.Status, _ = ParseStatus(dto.Status)
	}

	if err := s.repo.Create(rm); err != nil {
		s.logger.Error("failed to create room", "error", err)
		return nil, internal.NewInternalError("failed to create room", err)
	}

	s.logger.Info("room created", "room_id", rm.ID)
	return rm, nil
}

func (s *Service) Update(id int64, dto UpsertRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	rm.Name = dto.Name
	rm.Building = dto.Building
	rm.Capacity = dto.Capacity
	if dto.Status != "" {
		rm.Status, _ = ParseStatus(dto.Status)
	}
	rm.UpdatedAt = time.Now()

	if err := s.repo.Update(rm); err != nil {
		s.logger.Error("failed to update room", "error", err, "room_id", id)
		return nil, internal.NewInternalError("failed to update room", err)
	}

	return rm, nil
}

// Delete refuses while equipment is still assigned to the room.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrNotFound
	}

	count, err := s.repo.EquipmentCount(id)
	if err != nil {
		return internal.NewInternalError("failed to check room equipment", err)
	}
	if count > 0 {
		return ErrOccupied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete room", "error", err, "room_id", id)
		return internal.NewInternalError("failed to delete room", err)
	}

	s.logger.Info("room deleted", "room_id", id)
	return nil
}
