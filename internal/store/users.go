package store

import (
	"github.com/rednote/backend/internal/models"
)

// CreateUser inserts a user and fills its surrogate id.
func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

// UserByID returns a user or gorm.ErrRecordNotFound.
func (s *Store) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByEmail returns a user or gorm.ErrRecordNotFound.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether any account uses the email.
func (s *Store) EmailTaken(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

// UsersByIDs batch-resolves users into an id-keyed map. The single lookup
// feeding the view assembler; never called per row.
func (s *Store) UsersByIDs(ids []uint) (map[uint]models.User, error) {
	users := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		users[row.ID] = row
	}
	return users, nil
}

// UpdateAvatar points a user's profile at a freshly uploaded avatar URL.
func (s *Store) UpdateAvatar(userID uint, avatarURL string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", avatarURL).Error
}
