package store

import (
	"github.com/rednote/backend/internal/models"
	"gorm.io/gorm"
)

// CreateComment inserts a comment and fills its surrogate id.
func (s *Store) CreateComment(comment *models.Comment) error {
	return s.db.Create(comment).Error
}

// CommentByID returns a comment or gorm.ErrRecordNotFound.
func (s *Store) CommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// RootCommentsByLikes returns every root comment of a post, hottest first.
// Full-list semantics for small initial pulls; the paginated surface is
// RootCommentsHotPage.
func (s *Store) RootCommentsByLikes(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Where("post_id = ? AND root_parent_id IS NULL", postID).
		Order("like_count DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// RootCommentsHotPage scans the root-comment feed window in descending
// (like_count, id) order. When hasCursor is set, only rows strictly after
// (lastLikes, lastID) in that order are returned. Ties always break on the
// immutable id, so the order itself is stable under concurrent likes; a
// like that crosses a page boundary between calls may still skip or repeat
// a row, which is the documented trade-off of this cursor.
func (s *Store) RootCommentsHotPage(postID uint, lastLikes int, lastID uint, hasCursor bool, limit int) ([]models.Comment, error) {
	query := s.db.
		Where("post_id = ? AND root_parent_id IS NULL", postID).
		Order("like_count DESC").
		Order("id DESC").
		Limit(limit)

	if hasCursor {
		query = query.Where("like_count < ? OR (like_count = ? AND id < ?)", lastLikes, lastLikes, lastID)
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// RepliesAfter scans a thread's replies in creation order. The id predicate
// stands in for a (created_at, id) cursor since ids are monotonic with
// creation order.
func (s *Store) RepliesAfter(rootID uint, lastID uint, limit int) ([]models.Comment, error) {
	query := s.db.
		Where("root_parent_id = ?", rootID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)
	if lastID > 0 {
		query = query.Where("id > ?", lastID)
	}

	var replies []models.Comment
	if err := query.Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// TopReplies resolves the single best reply for each thread root in one
// round trip: the post author's earliest reply when one exists, otherwise
// the earliest reply overall, ties broken by ascending id. Pass
// postAuthorID zero when the post could not be resolved; the author
// preference then never matches and selection falls back to earliest.
func (s *Store) TopReplies(rootIDs []uint, postAuthorID uint) ([]models.Comment, error) {
	if len(rootIDs) == 0 {
		return nil, nil
	}

	var replies []models.Comment
	err := s.db.Raw(`
		SELECT * FROM (
			SELECT c.*, ROW_NUMBER() OVER (
				PARTITION BY c.root_parent_id
				ORDER BY CASE WHEN c.user_id = ? THEN 0 ELSE 1 END, c.created_at ASC, c.id ASC
			) AS top_rank
			FROM comments c
			WHERE c.root_parent_id IN ?
		) ranked WHERE top_rank = 1`,
		postAuthorID, rootIDs,
	).Scan(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// ReplyCounts returns the total descendant count per thread root,
// independent of any pagination window.
func (s *Store) ReplyCounts(rootIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(rootIDs))
	if len(rootIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RootParentID uint
		Total        int64
	}
	err := s.db.Model(&models.Comment{}).
		Select("root_parent_id, COUNT(*) AS total").
		Where("root_parent_id IN ?", rootIDs).
		Group("root_parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.RootParentID] = row.Total
	}
	return counts, nil
}

// ApplyCommentLikeDelta bumps the denormalized like counter by a relative
// delta at the storage layer.
func (s *Store) ApplyCommentLikeDelta(commentID uint, delta int) error {
	return s.db.Model(&models.Comment{}).Where("id = ?", commentID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}
