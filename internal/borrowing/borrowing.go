package borrowing

import (
	"fmt"
	"time"

	"github.com/maulanaar/labtrack/internal"
)

// Status is the closed set of borrowing states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

// StatusVocabulary is the fixed report vocabulary for borrowing summaries.
var StatusVocabulary = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusReturned),
	string(StatusCancelled),
}

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned, StatusCancelled:
		return Status(value), nil
	}
	return "", fmt.Errorf("unknown borrowing status %q", value)
}

type BorrowingRequest struct {
	ID          int64      `gorm:"primaryKey"`
	EquipmentID int64      `gorm:"column:equipment_id;not null"`
	BorrowerID  int64      `gorm:"column:borrower_id;not null"`
	Purpose     string     `gorm:"column:purpose"`
	Status      Status     `gorm:"column:status;default:pending"`
	Reason      string     `gorm:"column:reason"`
	RequestedAt time.Time  `gorm:"column:requested_at"`
	ApprovedBy  *int64     `gorm:"column:approved_by"`
	DueDate     *time.Time `gorm:"column:due_date"`
	ReturnedAt  *time.Time `gorm:"column:returned_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (BorrowingRequest) TableName() string {
	return "borrowing_requests"
}

func (b *BorrowingRequest) CanBeApproved() bool {
	return b.Status == StatusPending
}

func (b *BorrowingRequest) CanBeReturned() bool {
	return b.Status == StatusApproved
}

type ListFilter struct {
	BorrowerID  int64
	EquipmentID int64
	Status      Status
}

// Repository persists borrowing requests. Approve and return flip the
// equipment status in the same transaction as the request mutation.
type Repository interface {
	Create(req *BorrowingRequest) error
	GetByID(id int64) (*BorrowingRequest, error)
	List(filter ListFilter) ([]*BorrowingRequest, error)
	Update(req *BorrowingRequest) error
	ApproveWithEquipmentFlag(req *BorrowingRequest) error
	ReturnWithEquipmentRestore(req *BorrowingRequest) error
}

var (
	ErrNotFound      = internal.NewNotFoundError("Borrowing request not found", internal.ErrCodeBorrowingNotFound)
	ErrInvalidStatus = internal.NewConflictError("Borrowing request is not in a valid status for this operation", internal.ErrCodeInvalidStatus)
	ErrNotBorrowable = internal.NewConflictError("Equipment is not available for borrowing", internal.ErrCodeEquipmentInUse)
)
