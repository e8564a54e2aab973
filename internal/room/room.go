package room

import (
	"fmt"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusActive, StatusInactive:
		return Status(value), nil
	}
	return "", fmt.Errorf("unknown room status %q", value)
}

type Room struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Building  string    `gorm:"column:building"`
	Capacity  int       `gorm:"column:capacity"`
	Status    Status    `gorm:"column:status;default:active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

type ListFilter struct {
	Building string
	Status   Status
}

type Repository interface {
	Create(room *Room) error
	GetByID(id int64) (*Room, error)
	List(filter ListFilter) ([]*Room, error)
	Update(room *Room) error
	Delete(id int64) error
	EquipmentCount(id int64) (int64, error)
}

var (
	ErrNotFound = internal.NewNotFoundError("Room not found", internal.ErrCodeRoomNotFound)
	ErrOccupied = internal.NewConflictError("Room still has equipment assigned and cannot be deleted", internal.ErrCodeRoomOccupied)
)
