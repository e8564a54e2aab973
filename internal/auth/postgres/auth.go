package postgres

import (
	"errors"

	"github.com/maulanaar/labtrack/internal/auth"
	"gorm.io/gorm"
)

// UserRepository implements auth.UserRepository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(user *auth.User) error {
	return r.db.Create(user).Error
}

// SessionRepository implements auth.SessionRepository using GORM.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) auth.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *auth.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) GetByToken(token string) (*auth.Session, error) {
	var session auth.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&auth.Session{}).Error
}

func (r *SessionRepository) DeleteForUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&auth.Session{}).Error
}

func (r *SessionRepository) SetFlash(token, message string) error {
	return r.db.Model(&auth.Session{}).Where("token = ?", token).
		Update("flash", message).Error
}

func (r *SessionRepository) PopFlash(token string) (string, error) {
	session, err := r.GetByToken(token)
	if err != nil || session == nil || session.Flash == "" {
		return "", err
	}
	err = r.db.Model(&auth.Session{}).Where("token = ?", token).
		Update("flash", "").Error
	return session.Flash, err
}
