package postgres

import (
	"errors"
	"time"

	"github.com/maulanaar/labtrack/internal/borrowing"
	"github.com/maulanaar/labtrack/internal/equipment"
	"gorm.io/gorm"
)

// BorrowingRepository implements borrowing.Repository using GORM.
type BorrowingRepository struct {
	db *gorm.DB
}

func NewBorrowingRepository(db *gorm.DB) borrowing.Repository {
	return &BorrowingRepository{db: db}
}

func (r *BorrowingRepository) Create(req *borrowing.BorrowingRequest) error {
	return r.db.Create(req).Error
}

func (r *BorrowingRepository) GetByID(id int64) (*borrowing.BorrowingRequest, error) {
	var req borrowing.BorrowingRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrowing.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *BorrowingRepository) List(filter borrowing.ListFilter) ([]*borrowing.BorrowingRequest, error) {
	query := r.db.Model(&borrowing.BorrowingRequest{})

	if filter.BorrowerID != 0 {
		query = query.Where("borrower_id = ?", filter.BorrowerID)
	}
	if filter.EquipmentID != 0 {
		query = query.Where("equipment_id = ?", filter.EquipmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var requests []*borrowing.BorrowingRequest
	err := query.Order("requested_at DESC").Find(&requests).Error
	return requests, err
}

func (r *BorrowingRepository) Update(req *borrowing.BorrowingRequest) error {
	req.UpdatedAt = time.Now()
	return r.db.Save(req).Error
}

func (r *BorrowingRepository) ApproveWithEquipmentFlag(req *borrowing.BorrowingRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Model(&equipment.Equipment{}).
			Where("id = ?", req.EquipmentID).
			Updates(map[string]interface{}{
				"status":     equipment.StatusBorrowed,
				"updated_at": time.Now(),
			}).Error
	})
}

func (r *BorrowingRepository) ReturnWithEquipmentRestore(req *borrowing.BorrowingRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Model(&equipment.Equipment{}).
			Where("id = ?", req.EquipmentID).
			Updates(map[string]interface{}{
				"status":     equipment.StatusAvailable,
				"updated_at": time.Now(),
			}).Error
	})
}
