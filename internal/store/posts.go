package store

import (
	"github.com/rednote/backend/internal/models"
	"gorm.io/gorm"
)

// CreatePost inserts a post and fills its surrogate id.
func (s *Store) CreatePost(post *models.Post) error {
	return s.db.Create(post).Error
}

// PostByID returns a post or gorm.ErrRecordNotFound.
func (s *Store) PostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPostsBefore scans the post feed window: rows with id below the cursor
// (unconstrained when lastID is zero), newest first, up to limit rows. The
// caller overfetches by one to detect has_more.
func (s *Store) ListPostsBefore(lastID uint, limit int) ([]models.Post, error) {
	query := s.db.Order("id DESC").Limit(limit)
	if lastID > 0 {
		query = query.Where("id < ?", lastID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ApplyPostLikeDelta bumps the denormalized like counter by a relative
// delta at the storage layer. Never read-modify-write: concurrent likers
// from different actors must compose without locking.
func (s *Store) ApplyPostLikeDelta(postID uint, delta int) error {
	return s.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

// ApplyPostCommentDelta bumps the denormalized comment counter, same
// discipline as ApplyPostLikeDelta.
func (s *Store) ApplyPostCommentDelta(postID uint, delta int) error {
	return s.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}
