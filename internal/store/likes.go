package store

import (
	"github.com/rednote/backend/internal/models"
)

// HasPostLike reports whether the ledger holds a (post, user) fact.
func (s *Store) HasPostLike(postID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// InsertPostLike appends a like fact. A uniqueness violation surfaces as
// gorm.ErrDuplicatedKey (see IsDuplicate).
func (s *Store) InsertPostLike(like *models.PostLike) error {
	return s.db.Create(like).Error
}

// DeletePostLike removes a like fact and reports how many rows went away,
// which gates the counter decrement.
func (s *Store) DeletePostLike(postID, userID uint) (int64, error) {
	result := s.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	return result.RowsAffected, result.Error
}

// LikedPostIDs returns which of postIDs the viewer has liked, in one scan.
func (s *Store) LikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return liked, nil
	}

	var rows []models.PostLike
	err := s.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.PostID] = true
	}
	return liked, nil
}

// HasCommentLike reports whether the ledger holds a (comment, user) fact.
func (s *Store) HasCommentLike(commentID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// InsertCommentLike appends a like fact, same contract as InsertPostLike.
func (s *Store) InsertCommentLike(like *models.CommentLike) error {
	return s.db.Create(like).Error
}

// DeleteCommentLike removes a like fact and reports how many rows went away.
func (s *Store) DeleteCommentLike(commentID, userID uint) (int64, error) {
	result := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{})
	return result.RowsAffected, result.Error
}

// LikedCommentIDs returns which of commentIDs the viewer has liked, in one
// scan.
func (s *Store) LikedCommentIDs(userID uint, commentIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(commentIDs))
	if userID == 0 || len(commentIDs) == 0 {
		return liked, nil
	}

	var rows []models.CommentLike
	err := s.db.Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.CommentID] = true
	}
	return liked, nil
}

// CountPostLikes returns the true ledger cardinality for a post.
func (s *Store) CountPostLikes(postID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CountCommentLikes returns the true ledger cardinality for a comment.
func (s *Store) CountCommentLikes(commentID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
