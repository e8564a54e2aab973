package postgres

import (
	"errors"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(filter user.ListFilter) ([]*user.User, error) {
	query := r.db.Model(&user.User{})

	if filter.Role != 0 {
		query = query.Where("role_id = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var users []*user.User
	err := query.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) RoleOf(userID int64) (internal.Role, error) {
	u, err := r.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return u.RoleID, nil
}

func (r *UserRepository) UpdateRole(id int64, role internal.Role) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role_id":    role,
			"updated_at": time.Now(),
		}).Error
}

func (r *UserRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
