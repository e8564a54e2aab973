package postgres

import (
	"errors"
	"time"

	"github.com/maulanaar/labtrack/internal/equipment"
	"github.com/maulanaar/labtrack/internal/maintenance"
	"gorm.io/gorm"
)

// MaintenanceRepository implements maintenance.Repository using GORM.
// Multi-table mutations run inside a single transaction.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) maintenance.Repository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) CreateWithEquipmentFlag(req *maintenance.MaintenanceRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return tx.Model(&equipment.Equipment{}).
			Where("id = ?", req.EquipmentID).
			Updates(map[string]interface{}{
				"status":     equipment.StatusMaintenance,
				"updated_at": time.Now(),
			}).Error
	})
}

func (r *MaintenanceRepository) GetByID(id int64) (*maintenance.MaintenanceRequest, error) {
	var req maintenance.MaintenanceRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, maintenance.ErrNotFound
		}
		return nil, err
	}
	normalizeStatus(&req)
	return &req, nil
}

func (r *MaintenanceRepository) List(filter maintenance.ListFilter) ([]*maintenance.MaintenanceRequest, error) {
	query := r.db.Model(&maintenance.MaintenanceRequest{})

	if filter.ReportedBy != 0 {
		query = query.Where("reported_by = ?", filter.ReportedBy)
	}
	if filter.AssignedTo != 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.EquipmentID != 0 {
		query = query.Where("equipment_id = ?", filter.EquipmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var requests []*maintenance.MaintenanceRequest
	err := query.Order("reported_at DESC").Find(&requests).Error
	for _, req := range requests {
		normalizeStatus(req)
	}
	return requests, err
}

func (r *MaintenanceRepository) Assign(id, technicianID int64, startedAt time.Time) error {
	return r.db.Model(&maintenance.MaintenanceRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": technicianID,
			"status":      maintenance.StatusInProgress,
			"started_at":  startedAt,
			"updated_at":  time.Now(),
		}).Error
}

func (r *MaintenanceRepository) CloseWithEquipmentRestore(req *maintenance.MaintenanceRequest) error {
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

func (r *MaintenanceRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&maintenance.MaintenanceRequest{}).Error
}

// normalizeStatus reconciles legacy "in progress" rows to the canonical
// underscored spelling.
func normalizeStatus(req *maintenance.MaintenanceRequest) {
	if parsed, err := maintenance.ParseStatus(string(req.Status)); err == nil {
		req.Status = parsed
	}
}
