package maintenance

import (
	"fmt"
	"strings"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

// Status is the closed set of maintenance states. The canonical spelling is
// underscored; ParseStatus accepts the legacy "in progress" form found in
// older rows and normalizes it at the data boundary.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StatusVocabulary is the fixed report vocabulary; aggregations over it must
// render absent statuses as zero, never omit them.
var StatusVocabulary = []string{
	string(StatusPending),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
}

func ParseStatus(value string) (Status, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), " ", "_")
	switch Status(normalized) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(normalized), nil
	}
	return "", fmt.Errorf("unknown maintenance status %q", value)
}

func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

type MaintenanceRequest struct {
	ID          int64      `gorm:"primaryKey"`
	EquipmentID int64      `gorm:"column:equipment_id;not null"`
	ReportedBy  int64      `gorm:"column:reported_by;not null"`
	AssignedTo  *int64     `gorm:"column:assigned_to"`
	Status      Status     `gorm:"column:status;default:pending"`
	Description string     `gorm:"column:description;not null"`
	ReportedAt  time.Time  `gorm:"column:reported_at"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

func (m *MaintenanceRequest) CanBeAssigned() bool {
	return m.Status == StatusPending && m.AssignedTo == nil
}

type ListFilter struct {
	ReportedBy  int64
	AssignedTo  int64
	EquipmentID int64
	Status      Status
}

// Repository persists maintenance requests. The *WithEquipment methods run
// the request mutation and the equipment status flip in one transaction so
// a failure cannot leave the two tables disagreeing.
type Repository interface {
	CreateWithEquipmentFlag(req *MaintenanceRequest) error
	GetByID(id int64) (*MaintenanceRequest, error)
	List(filter ListFilter) ([]*MaintenanceRequest, error)
	Assign(id, technicianID int64, startedAt time.Time) error
	CloseWithEquipmentRestore(req *MaintenanceRequest) error
	Delete(id int64) error
}

// UserDirectory resolves a user id to a role, used to validate assignees.
type UserDirectory interface {
	RoleOf(userID int64) (internal.Role, error)
}

var (
	ErrNotFound        = internal.NewNotFoundError("Maintenance request not found", internal.ErrCodeMaintenanceNotFound)
	ErrAlreadyAssigned = internal.NewConflictError("Maintenance request is already assigned", internal.ErrCodeAlreadyAssigned)
	ErrInvalidStatus   = internal.NewConflictError("Maintenance request is not in a valid status for this operation", internal.ErrCodeInvalidStatus)
	ErrNotTechnician   = internal.NewValidationError("Assignee cannot manage maintenance", internal.ErrCodeValidationFailed)
)
