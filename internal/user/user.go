package user

import (
	"time"

	"github.com/maulanaar/labtrack/internal"
)

// User is the administrative view of an account. Accounts are deactivated,
// never deleted.
type User struct {
	ID        int64         `gorm:"primaryKey"`
	Username  string        `gorm:"column:username"`
	Email     string        `gorm:"column:email"`
	RoleID    internal.Role `gorm:"column:role_id"`
	Status    string        `gorm:"column:status"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type ListFilter struct {
	Role   internal.Role
	Status string
}

type Repository interface {
	List(filter ListFilter) ([]*User, error)
	GetByID(id int64) (*User, error)
	RoleOf(userID int64) (internal.Role, error)
	UpdateRole(id int64, role internal.Role) error
	UpdateStatus(id int64, status string) error
}

// SessionRevoker drops every live session of a user, used on deactivation.
type SessionRevoker interface {
	DeleteForUser(userID int64) error
}

var ErrNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
