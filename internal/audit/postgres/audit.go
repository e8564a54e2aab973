package postgres

import (
	"time"

	"github.com/maulanaar/labtrack/internal/audit"
	"gorm.io/gorm"
)

// AuditRepository implements audit.Recorder using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Recorder {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(entry *audit.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

func (r *AuditRepository) ListRecent(limit int) ([]*audit.Entry, error) {
	var entries []*audit.Entry
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
