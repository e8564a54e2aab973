package postgres

import (
	"errors"
	"time"

	"github.com/maulanaar/labtrack/internal/equipment"
	"gorm.io/gorm"
)

// EquipmentRepository implements the equipment.Repository interface using GORM.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.Repository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(item *equipment.Equipment) error {
	return r.db.Create(item).Error
}

func (r *EquipmentRepository) GetByID(id int64) (*equipment.Equipment, error) {
	var item equipment.Equipment
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *EquipmentRepository) List(filter equipment.ListFilter) ([]*equipment.Equipment, error) {
	query := r.db.Model(&equipment.Equipment{})

	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RoomID != 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}

	var items []*equipment.Equipment
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) Update(item *equipment.Equipment) error {
	item.UpdatedAt = time.Now()
	return r.db.Save(item).Error
}

func (r *EquipmentRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&equipment.Equipment{}).Error
}

func (r *EquipmentRepository) HasOpenBorrowings(id int64) (bool, error) {
	var count int64
	err := r.db.Table("borrowing_requests").
		Where("equipment_id = ? AND status IN ?", id, []string{"pending", "approved"}).
		Count(&count).Error
	return count > 0, err
}

func (r *EquipmentRepository) HasOpenMaintenance(id int64) (bool, error) {
	var count int64
	err := r.db.Table("maintenance_requests").
		Where("equipment_id = ? AND status IN ?", id, []string{"pending", "in_progress"}).
		Count(&count).Error
	return count > 0, err
}
