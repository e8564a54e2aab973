package maintenance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	"github.com/maulanaar/labtrack/internal/equipment"
)

// EquipmentReader is the slice of the equipment repository this service
// needs to validate reports.
type EquipmentReader interface {
	GetByID(id int64) (*equipment.Equipment, error)
}

type Service struct {
	repo      Repository
	equipment EquipmentReader
	users     UserDirectory
	audit     audit.Recorder
	logger    *slog.Logger
}

func NewService(repo Repository, equipmentReader EquipmentReader, users UserDirectory, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipmentReader,
		users:     users,
		audit:     recorder,
		logger:    logger,
	}
}

// Report files a new maintenance request. The request row and the equipment
// status flip to "maintenance" commit together.
func (s *Service) Report(identity *internal.Identity, dto ReportMaintenanceDTO) (*MaintenanceRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.equipment.GetByID(dto.EquipmentID); err != nil {
		return nil, equipment.ErrNotFound
	}

	now := time.Now()
	req := &MaintenanceRequest{
		EquipmentID: dto.EquipmentID,
		ReportedBy:  identity.UserID,
		Status:      StatusPending,
		Description: dto.Description,
		ReportedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateWithEquipmentFlag(req); err != nil {
		s.logger.Error("failed to create maintenance request", "error", err, "equipment_id", dto.EquipmentID)
		return nil, internal.NewInternalError("failed to create maintenance request", err)
	}

	s.logger.Info("maintenance reported",
		"request_id", req.ID,
		"equipment_id", dto.EquipmentID,
		"reported_by", identity.UserID)
	return req, nil
}

// Assign hands a pending request to a technician and moves it to
// in_progress. Re-assigning an already-assigned request is rejected, not
// double-applied.
func (s *Service) Assign(identity *internal.Identity, requestID int64, dto AssignMaintenanceDTO) error {
	if !identity.HasCapability(internal.CapManageMaintenance) {
		s.logger.Warn("assign denied: insufficient capability", "user_id", identity.UserID, "request_id", requestID)
		return internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	if !req.CanBeAssigned() {
		s.logger.Warn("cannot assign maintenance request in current status",
			"request_id", requestID,
			"current_status", req.Status)
		return ErrAlreadyAssigned
	}

	role, err := s.users.RoleOf(dto.TechnicianID)
	if err != nil {
		return internal.NewNotFoundError("Technician not found", internal.ErrCodeUserNotFound)
	}
	if !internal.HasCapability(role, internal.CapManageMaintenance) {
		return ErrNotTechnician
	}

	if err := s.repo.Assign(requestID, dto.TechnicianID, time.Now()); err != nil {
		s.logger.Error("failed to assign maintenance request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to assign maintenance request", err)
	}

	s.recordAction(identity, audit.ActionMaintenanceAssigned,
		fmt.Sprintf("maintenance request %d assigned to technician %d", requestID, dto.TechnicianID))
	s.logger.Info("maintenance assigned",
		"request_id", requestID,
		"technician_id", dto.TechnicianID,
		"assigned_by", identity.UserID)
	return nil
}

// Complete closes an in-progress request and restores the equipment to
// available in the same transaction. Allowed for the assigned technician or
// anyone who can manage maintenance.
func (s *Service) Complete(identity *internal.Identity, requestID int64) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	assignedToActor := req.AssignedTo != nil && *req.AssignedTo == identity.UserID
	if !assignedToActor && !identity.HasCapability(internal.CapManageMaintenance) {
		return internal.ErrAccessDenied
	}

	if req.Status != StatusInProgress {
		return ErrInvalidStatus
	}

	now := time.Now()
	req.Status = StatusCompleted
	req.CompletedAt = &now
	req.UpdatedAt = now

	if err := s.repo.CloseWithEquipmentRestore(req); err != nil {
		s.logger.Error("failed to complete maintenance request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to complete maintenance request", err)
	}

	s.logger.Info("maintenance completed", "request_id", requestID, "user_id", identity.UserID)
	return nil
}

// Cancel aborts an open request. The reporter may cancel while it is still
// pending; managers may cancel any open request.
func (s *Service) Cancel(identity *internal.Identity, requestID int64) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	isOwner := req.ReportedBy == identity.UserID
	isManager := identity.HasCapability(internal.CapManageMaintenance)
	switch {
	case isManager:
	case isOwner && req.Status == StatusPending:
	default:
		return internal.ErrAccessDenied
	}

	if !req.Status.Open() {
		return ErrInvalidStatus
	}

	req.Status = StatusCancelled
	req.UpdatedAt = time.Now()

	if err := s.repo.CloseWithEquipmentRestore(req); err != nil {
		s.logger.Error("failed to cancel maintenance request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to cancel maintenance request", err)
	}

	s.logger.Info("maintenance cancelled", "request_id", requestID, "user_id", identity.UserID)
	return nil
}

// Delete removes a closed report. Owners may delete their own completed
// reports; the manage-maintenance capability overrides ownership.
func (s *Service) Delete(identity *internal.Identity, requestID int64) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	isOwner := req.ReportedBy == identity.UserID
	isManager := identity.HasCapability(internal.CapManageMaintenance)
	if !isOwner && !isManager {
		return internal.ErrAccessDenied
	}

	if req.Status.Open() {
		return ErrInvalidStatus
	}

	// the ownership override only covers completed reports; cancelled
	// ones stay visible to managers until they remove them
	if !isManager && req.Status != StatusCompleted {
		return internal.ErrAccessDenied
	}

	if err := s.repo.Delete(requestID); err != nil {
		s.logger.Error("failed to delete maintenance request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to delete maintenance request", err)
	}

	s.logger.Info("maintenance deleted", "request_id", requestID, "user_id", identity.UserID)
	return nil
}

// ListFor returns every request for users who may view all maintenance,
// otherwise only the caller's own reports.
func (s *Service) ListFor(identity *internal.Identity, filter ListFilter) ([]*MaintenanceRequest, error) {
	if !identity.HasCapability(internal.CapViewAllMaintenance) {
		filter.ReportedBy = identity.UserID
	}

	requests, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list maintenance requests", "error", err)
		return nil, internal.NewInternalError("failed to list maintenance requests", err)
	}
	return requests, nil
}

func (s *Service) Get(id int64) (*MaintenanceRequest, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return req, nil
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
