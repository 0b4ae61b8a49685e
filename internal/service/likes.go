package service

import (
	"fmt"

	apierrors "github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/store"
)

// LikeService owns the like ledgers and the counter discipline around them:
// one ledger row per (target, actor), counters bumped only on real
// transitions, and always via relative deltas at the storage layer.
type LikeService struct {
	store *store.Store
}

// NewLikeService creates the ledger service.
func NewLikeService(st *store.Store) *LikeService {
	return &LikeService{store: st}
}

// SetPostLike moves the (post, actor) pair toward the wanted state.
// Idempotent in both directions: re-liking and re-unliking are no-op
// successes that never touch the counter.
func (s *LikeService) SetPostLike(postID, actorID uint, want bool) error {
	if _, err := s.store.PostByID(postID); err != nil {
		if store.IsNotFound(err) {
			return apierrors.NotFound("post")
		}
		return fmt.Errorf("failed to load post: %w", err)
	}

	if want {
		liked, err := s.store.HasPostLike(postID, actorID)
		if err != nil {
			return fmt.Errorf("failed to check like state: %w", err)
		}
		if liked {
			return nil
		}

		err = s.store.InsertPostLike(&models.PostLike{PostID: postID, UserID: actorID})
		if err != nil {
			// The unique (post_id, user_id) index is the serialization
			// point: the loser of a concurrent like race lands here and
			// must not increment.
			if store.IsDuplicate(err) {
				return nil
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		return s.store.ApplyPostLikeDelta(postID, 1)
	}

	deleted, err := s.store.DeletePostLike(postID, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if deleted > 0 {
		return s.store.ApplyPostLikeDelta(postID, -1)
	}
	return nil
}

// SetCommentLike is SetPostLike for the comment ledger.
func (s *LikeService) SetCommentLike(commentID, actorID uint, want bool) error {
	if _, err := s.store.CommentByID(commentID); err != nil {
		if store.IsNotFound(err) {
			return apierrors.NotFound("comment")
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if want {
		liked, err := s.store.HasCommentLike(commentID, actorID)
		if err != nil {
			return fmt.Errorf("failed to check like state: %w", err)
		}
		if liked {
			return nil
		}

		err = s.store.InsertCommentLike(&models.CommentLike{CommentID: commentID, UserID: actorID})
		if err != nil {
			if store.IsDuplicate(err) {
				return nil
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		return s.store.ApplyCommentLikeDelta(commentID, 1)
	}

	deleted, err := s.store.DeleteCommentLike(commentID, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if deleted > 0 {
		return s.store.ApplyCommentLikeDelta(commentID, -1)
	}
	return nil
}
