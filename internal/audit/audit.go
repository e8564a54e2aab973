package audit

import "time"

// Action types written by the auth and domain services.
const (
	ActionLogin        = "login"
	ActionLoginFailed  = "login_failed"
	ActionLogout       = "logout"
	ActionRegistration = "registration"

	ActionEquipmentCreated    = "equipment_created"
	ActionEquipmentDeleted    = "equipment_deleted"
	ActionMaintenanceAssigned = "maintenance_assigned"
	ActionBorrowingApproved   = "borrowing_approved"
	ActionBorrowingRejected   = "borrowing_rejected"
	ActionUserDeactivated     = "user_deactivated"
)

// Entry is one append-only audit record. UserID is nil for actions that
// cannot be tied to an existing user row, e.g. failed logins, so the
// foreign key stays satisfiable.
type Entry struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      *int64    `gorm:"column:user_id"`
	ActionType  string    `gorm:"column:action_type;not null"`
	Description string    `gorm:"column:description"`
	IPAddress   string    `gorm:"column:ip_address"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

// Recorder appends audit entries. Implementations must never update or
// delete existing rows.
type Recorder interface {
	Record(entry *Entry) error
	ListRecent(limit int) ([]*Entry, error)
}
