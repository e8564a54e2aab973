package user

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
)

type Service struct {
	repo     Repository
	sessions SessionRevoker
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, sessions SessionRevoker, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		audit:    recorder,
		logger:   logger,
	}
}

func (s *Service) List(filter ListFilter) ([]*User, error) {
	users, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) Get(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) ChangeRole(identity *internal.Identity, userID int64, role internal.Role) error {
	if !role.Valid() {
		return internal.NewValidationError("role is not valid", internal.ErrCodeValidationFailed)
	}
	if userID == identity.UserID {
		return internal.NewValidationError("you cannot change your own role", internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return ErrNotFound
	}

	if err := s.repo.UpdateRole(userID, role); err != nil {
		s.logger.Error("failed to change role", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to change role", err)
	}

	s.logger.Info("user role changed", "user_id", userID, "role", role.String(), "changed_by", identity.UserID)
	return nil
}

// Deactivate marks the account inactive and revokes its sessions so the
// next request from that user resolves as anonymous.
func (s *Service) Deactivate(identity *internal.Identity, userID int64) error {
	if userID == identity.UserID {
		return internal.NewValidationError("you cannot deactivate your own account", internal.ErrCodeValidationFailed)
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrNotFound
	}

	if err := s.repo.UpdateStatus(userID, StatusInactive); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	if err := s.sessions.DeleteForUser(userID); err != nil {
		s.logger.Error("failed to revoke sessions", "error", err, "user_id", userID)
	}

	entry := &audit.Entry{
		UserID:      &identity.UserID,
		ActionType:  audit.ActionUserDeactivated,
		Description: fmt.Sprintf("user %q deactivated", target.Username),
		CreatedAt:   time.Now(),
	}
	if err := s.audit.Record(entry); err != nil {
		s.logger.Error("failed to write audit entry", "error", err)
	}

	s.logger.Info("user deactivated", "user_id", userID, "deactivated_by", identity.UserID)
	return nil
}

func (s *Service) Activate(identity *internal.Identity, userID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return ErrNotFound
	}

	if err := s.repo.UpdateStatus(userID, StatusActive); err != nil {
		s.logger.Error("failed to activate user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to activate user", err)
	}

	s.logger.Info("user activated", "user_id", userID, "activated_by", identity.UserID)
	return nil
}
