package auth

import (
	"strings"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

type LoginDTO struct {
	Username string
	Password string
}

func (dto LoginDTO) Validate() error {
	var errs internal.ValidationErrors
	if strings.TrimSpace(dto.Username) == "" {
		errs.Add("username", "username is required")
	}
	if dto.Password == "" {
		errs.Add("password", "password is required")
	}
	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

type RegisterDTO struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	RoleID          internal.Role
}

func (dto RegisterDTO) Validate() error {
	var errs internal.ValidationErrors

	username := strings.TrimSpace(dto.Username)
	if username == "" {
		errs.Add("username", "username is required")
	} else if len(username) < 3 || len(username) > 50 {
		errs.Add("username", "username must be between 3 and 50 characters")
	}

	email := strings.TrimSpace(dto.Email)
	if email == "" {
		errs.Add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "email is not valid")
	}

	if dto.Password == "" {
		errs.Add("password", "password is required")
	} else if len(dto.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	if dto.Password != dto.ConfirmPassword {
		errs.Add("confirm_password", "passwords do not match")
	}

	if !dto.RoleID.Valid() {
		errs.Add("role", "role is not valid")
	} else if dto.RoleID == internal.RoleAdministrator {
		// administrator accounts are provisioned by an existing
		// administrator, never through the public form
		errs.Add("role", "role is not available for registration")
	}

	if errs.HasErrors() {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

// LoginResult carries what the handler needs to establish the session
// cookie and send the user to their role-specific landing page.
type LoginResult struct {
	Token        string
	ExpiresAt    time.Time
	RedirectPath string
	UserID       int64
}
