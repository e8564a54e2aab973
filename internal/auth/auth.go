package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"golang.org/x/crypto/bcrypt"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is the identity record. Users are deactivated, never deleted.
type User struct {
	ID           int64         `gorm:"primaryKey"`
	Username     string        `gorm:"column:username;not null"`
	Email        string        `gorm:"column:email;not null"`
	PasswordHash string        `gorm:"column:password_hash;not null"`
	RoleID       internal.Role `gorm:"column:role_id;not null"`
	Status       string        `gorm:"column:status;default:active"`
	CreatedAt    time.Time     `gorm:"column:created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Session binds a server-issued token to a user id for a fixed lifetime.
// Flash holds at most one pending notification message, cleared on read.
type Session struct {
	Token     string    `gorm:"primaryKey;column:token"`
	UserID    int64     `gorm:"column:user_id;not null"`
	IPAddress string    `gorm:"column:ip_address"`
	Flash     string    `gorm:"column:flash"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type UserRepository interface {
	GetByID(id int64) (*User, error)
	GetByUsername(username string) (*User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *User) error
}

type SessionRepository interface {
	Create(session *Session) error
	GetByToken(token string) (*Session, error)
	Delete(token string) error
	DeleteForUser(userID int64) error
	SetFlash(token, message string) error
	PopFlash(token string) (string, error)
}

var ErrUserNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateSessionToken returns a cryptographically random opaque token.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
