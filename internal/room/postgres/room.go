package postgres

import (
	"errors"
	"time"

	"github.com/maulanaar/labtrack/internal/room"
	"gorm.io/gorm"
)

// RoomRepository implements the room.Repository interface using GORM.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) room.Repository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(rm *room.Room) error {
	return r.db.Create(rm).Error
}

func (r *RoomRepository) GetByID(id int64) (*room.Room, error) {
	var rm room.Room
	err := r.db.Where("id = ?", id).First(&rm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, room.ErrNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) List(filter room.ListFilter) ([]*room.Room, error) {
	query := r.db.Model(&room.Room{})

	if filter.Building != "" {
		query = query.Where("building = ?", filter.Building)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var rooms []*room.Room
	err := query.Order("building ASC, name ASC").Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) Update(rm *room.Room) error {
	rm.UpdatedAt = time.Now()
	return r.db.Save(rm).Error
}

func (r *RoomRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&room.Room{}).Error
}

func (r *RoomRepository) EquipmentCount(id int64) (int64, error) {
	var count int64
	err := r.db.Table("equipment").Where("room_id = ?", id).Count(&count).Error
	return count, err
}
