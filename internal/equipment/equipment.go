package equipment

import (
	"fmt"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

// Status is the closed set of equipment states.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusBorrowed    Status = "borrowed"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusAvailable, StatusBorrowed, StatusMaintenance, StatusRetired:
		return Status(value), nil
	}
	return "", fmt.Errorf("unknown equipment status %q", value)
}

func (s Status) Label() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusBorrowed:
		return "Borrowed"
	case StatusMaintenance:
		return "Under Maintenance"
	case StatusRetired:
		return "Retired"
	}
	return string(s)
}

// Condition is the closed set of physical conditions.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

func ParseCondition(value string) (Condition, error) {
	switch Condition(value) {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return Condition(value), nil
	}
	return "", fmt.Errorf("unknown equipment condition %q", value)
}

type Equipment struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Category     string    `gorm:"column:category"`
	SerialNumber string    `gorm:"column:serial_number"`
	Condition    Condition `gorm:"column:condition;default:good"`
	Status       Status    `gorm:"column:status;default:available"`
	RoomID       *int64    `gorm:"column:room_id"`
	Description  string    `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) Borrowable() bool {
	return e.Status == StatusAvailable
}

// ListFilter narrows equipment listings; zero values mean no filtering.
type ListFilter struct {
	Name     string
	Category string
	Status   Status
	RoomID   int64
}

type Repository interface {
	Create(equipment *Equipment) error
	GetByID(id int64) (*Equipment, error)
	List(filter ListFilter) ([]*Equipment, error)
	Update(equipment *Equipment) error
	Delete(id int64) error
	HasOpenBorrowings(id int64) (bool, error)
	HasOpenMaintenance(id int64) (bool, error)
}

var (
	ErrNotFound = internal.NewNotFoundError("Equipment not found", internal.ErrCodeEquipmentNotFound)
	ErrInUse    = internal.NewConflictError("Equipment has open borrowings or maintenance and cannot be deleted", internal.ErrCodeEquipmentInUse)
)
