package borrowing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	"github.com/maulanaar/labtrack/internal/equipment"
)

type EquipmentReader interface {
	GetByID(id int64) (*equipment.Equipment, error)
}

type Service struct {
	repo      Repository
	equipment EquipmentReader
	audit     audit.Recorder
	logger    *slog.Logger
}

func NewService(repo Repository, equipmentReader EquipmentReader, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipmentReader,
		audit:     recorder,
		logger:    logger,
	}
}

// Request files a borrowing request for an available unit.
func (s *Service) Request(identity *internal.Identity, dto RequestBorrowingDTO) (*BorrowingRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.equipment.GetByID(dto.EquipmentID)
	if err != nil {
		return nil, equipment.ErrNotFound
	}
	if !item.Borrowable() {
		return nil, ErrNotBorrowable
	}

	now := time.Now()
	req := &BorrowingRequest{
		EquipmentID: dto.EquipmentID,
		BorrowerID:  identity.UserID,
		Purpose:     dto.Purpose,
		Status:      StatusPending,
		RequestedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create borrowing request", "error", err, "equipment_id", dto.EquipmentID)
		return nil, internal.NewInternalError("failed to create borrowing request", err)
	}

	s.logger.Info("borrowing requested",
		"request_id", req.ID,
		"equipment_id", dto.EquipmentID,
		"borrower_id", identity.UserID)
	return req, nil
}

// Approve moves a pending request to approved and flips the equipment to
// borrowed in one transaction.
func (s *Service) Approve(identity *internal.Identity, requestID int64, dto ApproveBorrowingDTO) error {
	if !identity.HasCapability(internal.CapApproveBorrowing) {
		s.logger.Warn("approve denied: insufficient capability", "user_id", identity.UserID, "request_id", requestID)
		return internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	if !req.CanBeApproved() {
		s.logger.Warn("cannot approve borrowing request in current status",
			"request_id", requestID,
			"current_status", req.Status)
		return ErrInvalidStatus
	}

	now := time.Now()
	req.Status = StatusApproved
	req.ApprovedBy = &identity.UserID
	req.DueDate = &dto.DueDate
	req.UpdatedAt = now

	if err := s.repo.ApproveWithEquipmentFlag(req); err != nil {
		s.logger.Error("failed to approve borrowing request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to approve borrowing request", err)
	}

	s.recordAction(identity, audit.ActionBorrowingApproved,
		fmt.Sprintf("borrowing request %d approved", requestID))
	s.logger.Info("borrowing approved", "request_id", requestID, "approved_by", identity.UserID)
	return nil
}

// Reject declines a pending request with a reason.
func (s *Service) Reject(identity *internal.Identity, requestID int64, dto RejectBorrowingDTO) error {
	if !identity.HasCapability(internal.CapApproveBorrowing) {
		return internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	if !req.CanBeApproved() {
		return ErrInvalidStatus
	}

	req.Status = StatusRejected
	req.Reason = dto.Reason
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to reject borrowing request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to reject borrowing request", err)
	}

	s.recordAction(identity, audit.ActionBorrowingRejected,
		fmt.Sprintf("borrowing request %d rejected", requestID))
	s.logger.Info("borrowing rejected", "request_id", requestID, "rejected_by", identity.UserID)
	return nil
}

// Return closes an approved loan and restores the equipment to available
// in the same transaction.
func (s *Service) Return(identity *internal.Identity, requestID int64) error {
	if !identity.HasCapability(internal.CapApproveBorrowing) {
		return internal.ErrAccessDenied
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	if !req.CanBeReturned() {
		return ErrInvalidStatus
	}

	now := time.Now()
	req.Status = StatusReturned
	req.ReturnedAt = &now
	req.UpdatedAt = now

	if err := s.repo.ReturnWithEquipmentRestore(req); err != nil {
		s.logger.Error("failed to return borrowing request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to record return", err)
	}

	s.logger.Info("borrowing returned", "request_id", requestID, "user_id", identity.UserID)
	return nil
}

// Cancel lets the borrower withdraw a request that is still pending.
func (s *Service) Cancel(identity *internal.Identity, requestID int64) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return ErrNotFound
	}

	isOwner := req.BorrowerID == identity.UserID
	if !isOwner && !identity.HasCapability(internal.CapApproveBorrowing) {
		return internal.ErrAccessDenied
	}

	if req.Status != StatusPending {
		return ErrInvalidStatus
	}

	req.Status = StatusCancelled
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to cancel borrowing request", "error", err, "request_id", requestID)
		return internal.NewInternalError("failed to cancel borrowing request", err)
	}

	s.logger.Info("borrowing cancelled", "request_id", requestID, "user_id", identity.UserID)
	return nil
}

// ListFor returns every request for users who may view all borrowings,
// otherwise only the caller's own requests.
func (s *Service) ListFor(identity *internal.Identity, filter ListFilter) ([]*BorrowingRequest, error) {
	if !identity.HasCapability(internal.CapViewAllBorrowings) {
		filter.BorrowerID = identity.UserID
	}

	requests, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list borrowing requests", "error", err)
		return nil, internal.NewInternalError("failed to list borrowing requests", err)
	}
	return requests, nil
}

func (s *Service) Get(id int64) (*BorrowingRequest, error) {
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
