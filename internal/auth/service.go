package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Login(dto LoginDTO, ip string) (*LoginResult, error)
	Logout(token, ip string) error
	Register(dto RegisterDTO, ip string) (int64, error)
	ResolveSession(token string) (*internal.Identity, error)
}

// Service implements authentication and per-request identity resolution.
type Service struct {
	users           UserRepository
	sessions        SessionRepository
	audit           audit.Recorder
	bcryptCost      int
	sessionLifetime time.Duration
	logger          *slog.Logger
}

func NewService(users UserRepository, sessions SessionRepository, recorder audit.Recorder, bcryptCost int, sessionLifetime time.Duration, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if sessionLifetime <= 0 {
		sessionLifetime = 24 * time.Hour
	}
	return &Service{
		users:           users,
		sessions:        sessions,
		audit:           recorder,
		bcryptCost:      bcryptCost,
		sessionLifetime: sessionLifetime,
		logger:          logger,
	}
}

// Login verifies credentials and establishes a session. Unknown usernames
// and wrong passwords produce the same user-facing error; only the audit
// trail distinguishes them, and failed attempts never reference a user id.
func (s *Service) Login(dto LoginDTO, ip string) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(dto.Username)
	if err != nil {
		s.logger.Warn("login failed: unknown username", "username", dto.Username)
		s.record(nil, audit.ActionLoginFailed, fmt.Sprintf("failed login attempt for %q", dto.Username), ip)
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: wrong password", "user_id", user.ID)
		s.record(nil, audit.ActionLoginFailed, fmt.Sprintf("failed login attempt for %q", dto.Username), ip)
		return nil, internal.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.logger.Warn("login rejected: inactive account", "user_id", user.ID)
		s.record(nil, audit.ActionLoginFailed, fmt.Sprintf("login attempt for inactive account %q", dto.Username), ip)
		return nil, internal.ErrUserInactive
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to create session", err)
	}

	now := time.Now()
	session := &Session{
		Token:     token,
		UserID:    user.ID,
		IPAddress: ip,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionLifetime),
	}
	if err := s.sessions.Create(session); err != nil {
		s.logger.Error("failed to persist session", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to create session", err)
	}

	s.record(&user.ID, audit.ActionLogin, fmt.Sprintf("user %q logged in", user.Username), ip)

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.RoleID.String())

	return &LoginResult{
		Token:        token,
		ExpiresAt:    session.ExpiresAt,
		RedirectPath: internal.LandingPath(user.RoleID),
		UserID:       user.ID,
	}, nil
}

// Logout destroys the session bound to token. Calling it with no live
// session is a no-op.
func (s *Service) Logout(token, ip string) error {
	if token == "" {
		return nil
	}

	session, err := s.sessions.GetByToken(token)
	if err != nil || session == nil {
		return nil
	}

	if user, err := s.users.GetByID(session.UserID); err == nil {
		s.record(&user.ID, audit.ActionLogout, fmt.Sprintf("user %q logged out", user.Username), ip)
	}

	if err := s.sessions.Delete(token); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return internal.NewInternalError("failed to end session", err)
	}
	return nil
}

// Register creates a new active user. The two uniqueness constraints are
// checked independently; the first violation wins. Registration does not
// log the new user in.
func (s *Service) Register(dto RegisterDTO, ip string) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	taken, err := s.users.ExistsByUsername(dto.Username)
	if err != nil {
		return 0, internal.NewInternalError("failed to check username", err)
	}
	if taken {
		return 0, internal.ErrDuplicateUsername
	}

	taken, err = s.users.ExistsByEmail(dto.Email)
	if err != nil {
		return 0, internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return 0, internal.ErrDuplicateEmail
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return 0, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       dto.RoleID,
		Status:       UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return 0, internal.NewInternalError("failed to create user", err)
	}

	s.record(&user.ID, audit.ActionRegistration, fmt.Sprintf("user %q registered", user.Username), ip)

	s.logger.Info("user registered", "user_id", user.ID, "role", user.RoleID.String())
	return user.ID, nil
}

// ResolveSession turns a session token into the request identity. A missing,
// expired, or orphaned session is destroyed and the request is treated as
// anonymous (nil identity, nil error).
func (s *Service) ResolveSession(token string) (*internal.Identity, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetByToken(token)
	if err != nil || session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		if err := s.sessions.Delete(token); err != nil {
			s.logger.Error("failed to drop expired session", "error", err)
		}
		return nil, nil
	}

	user, err := s.users.GetByID(session.UserID)
	if err != nil || user == nil || !user.IsActive() {
		if err := s.sessions.Delete(token); err != nil {
			s.logger.Error("failed to invalidate session", "error", err)
		}
		return nil, nil
	}

	return &internal.Identity{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.RoleID,
		SessionToken: token,
	}, nil
}

// record appends an audit entry; audit failures are logged, never surfaced.
func (s *Service) record(userID *int64, action, description, ip string) {
	entry := &audit.Entry{
		UserID:      userID,
		ActionType:  action,
		Description: description,
		IPAddress:   ip,
		CreatedAt:   time.Now(),
	}
	if err := s.audit.Record(entry); err != nil {
		s.logger.Error("failed to write audit entry", "error", err, "action", action)
	}
}
