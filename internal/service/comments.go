package service

import (
	"context"
	"fmt"

	apierrors "github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/pagination"
	"github.com/rednote/backend/internal/storage"
	"github.com/rednote/backend/internal/store"
	"github.com/rednote/backend/internal/views"
)

// CommentService owns comment creation (including root-id inference), the
// hot-first root-comment feed with thread summaries, and reply expansion.
type CommentService struct {
	store *store.Store
	blobs storage.BlobStore
}

// NewCommentService creates the comment service.
func NewCommentService(st *store.Store, blobs storage.BlobStore) *CommentService {
	return &CommentService{store: st, blobs: blobs}
}

// PublishCommentInput carries a new comment. ParentID nil means a root
// comment attached to the post. Width/height accompany an optional image;
// when absent they are probed from the blob.
type PublishCommentInput struct {
	PostID        uint
	Content       string
	ParentID      *uint
	ReplyToUserID *uint
	ImageWidth    *int
	ImageHeight   *int
	Image         *ImageUpload
}

// Publish creates a comment. The root id is always inferred server-side so
// a reply at any depth carries the id of its thread root, never of an
// intermediate reply; clients cannot break the two-level structure.
func (s *CommentService) Publish(ctx context.Context, actorID uint, in PublishCommentInput) (*views.CommentView, error) {
	if in.Content == "" && in.Image == nil {
		return nil, apierrors.ValidationError("content", "comment needs text or an image")
	}

	if _, err := s.store.PostByID(in.PostID); err != nil {
		if store.IsNotFound(err) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := models.Comment{
		PostID:        in.PostID,
		UserID:        actorID,
		Content:       in.Content,
		ParentID:      in.ParentID,
		ReplyToUserID: in.ReplyToUserID,
	}

	if in.ParentID != nil {
		parent, err := s.store.CommentByID(*in.ParentID)
		if err != nil {
			if store.IsNotFound(err) {
				// A reply must never be orphaned silently.
				return nil, apierrors.NotFound("parent comment")
			}
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parent.RootParentID != nil {
			// Parent is itself a reply; flatten to its thread root.
			comment.RootParentID = parent.RootParentID
		} else {
			comment.RootParentID = &parent.ID
		}
	}

	if in.ImageWidth != nil && *in.ImageWidth > 0 {
		comment.ImageWidth = in.ImageWidth
	}
	if in.ImageHeight != nil && *in.ImageHeight > 0 {
		comment.ImageHeight = in.ImageHeight
	}

	if in.Image != nil {
		url, err := s.blobs.UploadImage(ctx, in.Image.Data, in.Image.Filename, actorID)
		if err != nil {
			// The attachment is optional but a failed upload is not: the
			// caller asked for an image and must hear that it is gone.
			logger.ErrorWithFields("Comment image upload failed", err)
			return nil, apierrors.Upstream("media store")
		}
		comment.ImageURL = url

		if comment.ImageWidth == nil || comment.ImageHeight == nil {
			width, height, err := s.blobs.ProbeDimensions(in.Image.Data)
			if err != nil {
				// Probe failure is cosmetic; store null dimensions.
				logger.WarnWithFields("Image dimension probe failed", err)
			} else {
				comment.ImageWidth = &width
				comment.ImageHeight = &height
			}
		}
	}

	if err := s.store.CreateComment(&comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.store.ApplyPostCommentDelta(in.PostID, 1); err != nil {
		logger.WarnWithFields("Failed to bump post comment count", err)
	}

	author, err := s.store.UserByID(actorID)
	if err != nil {
		logger.WarnWithFields("Failed to load comment author", err)
	}
	userMap := map[uint]models.User{}
	if author != nil {
		userMap[author.ID] = *author
	}
	view := views.NewCommentView(comment, userMap, nil)
	return &view, nil
}

// RootComments returns every root comment of a post, hottest first.
// Unpaginated by design; the paginated surface is Feed.
func (s *CommentService) RootComments(viewerID, postID uint) ([]views.CommentView, error) {
	comments, err := s.store.RootCommentsByLikes(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load root comments: %w", err)
	}
	return s.assembleViews(viewerID, comments)
}

// Feed returns one window of the root-comment feed with thread summaries:
// each root comment plus its reply count and single top reply. All
// batch lookups are one round trip each regardless of page size.
func (s *CommentService) Feed(viewerID, postID uint, cursor string, size int) (pagination.Page[views.CommentThread], error) {
	size = pagination.ClampSize(size)
	lastLikes, lastID, hasCursor := pagination.ParseHotCursor(cursor)

	roots, err := s.store.RootCommentsHotPage(postID, lastLikes, lastID, hasCursor, size+1)
	if err != nil {
		return pagination.Page[views.CommentThread]{}, fmt.Errorf("failed to scan comment feed: %w", err)
	}

	page := pagination.BuildPage(roots, size, func(c models.Comment) string {
		return pagination.FormatHotCursor(c.LikeCount, c.ID)
	})

	threads := make([]views.CommentThread, 0, len(page.Items))
	if len(page.Items) > 0 {
		rootIDs := make([]uint, 0, len(page.Items))
		for _, c := range page.Items {
			rootIDs = append(rootIDs, c.ID)
		}

		// Top-reply selection prefers the post author's earliest reply, so
		// the author id is resolved first. A concurrently deleted post
		// degrades to earliest-overall; it never aborts the feed.
		var postAuthorID uint
		if post, err := s.store.PostByID(postID); err == nil {
			postAuthorID = post.UserID
		} else if !store.IsNotFound(err) {
			logger.WarnWithFields("Failed to resolve post author for comment feed", err)
		}

		topReplies, err := s.store.TopReplies(rootIDs, postAuthorID)
		if err != nil {
			return pagination.Page[views.CommentThread]{}, fmt.Errorf("failed to load top replies: %w", err)
		}
		topReplyByRoot := make(map[uint]models.Comment, len(topReplies))
		for _, reply := range topReplies {
			if reply.RootParentID != nil {
				topReplyByRoot[*reply.RootParentID] = reply
			}
		}

		replyCounts, err := s.store.ReplyCounts(rootIDs)
		if err != nil {
			return pagination.Page[views.CommentThread]{}, fmt.Errorf("failed to count replies: %w", err)
		}

		// Union of root authors and top-reply authors, one user lookup;
		// union of root and top-reply ids, one like-state lookup.
		userIDSet := make(map[uint]struct{})
		commentIDs := make([]uint, 0, len(page.Items)*2)
		for _, c := range page.Items {
			userIDSet[c.UserID] = struct{}{}
			commentIDs = append(commentIDs, c.ID)
		}
		for _, reply := range topReplyByRoot {
			userIDSet[reply.UserID] = struct{}{}
			commentIDs = append(commentIDs, reply.ID)
		}
		userIDs := make([]uint, 0, len(userIDSet))
		for id := range userIDSet {
			userIDs = append(userIDs, id)
		}

		users, err := s.store.UsersByIDs(userIDs)
		if err != nil {
			return pagination.Page[views.CommentThread]{}, fmt.Errorf("failed to load comment authors: %w", err)
		}
		liked, err := s.store.LikedCommentIDs(viewerID, commentIDs)
		if err != nil {
			return pagination.Page[views.CommentThread]{}, fmt.Errorf("failed to load like state: %w", err)
		}

		for _, c := range page.Items {
			thread := views.CommentThread{
				CommentView: views.NewCommentView(c, users, liked),
				ReplyCount:  replyCounts[c.ID],
			}
			if reply, ok := topReplyByRoot[c.ID]; ok {
				top := views.NewCommentView(reply, users, liked)
				thread.TopReply = &top
			}
			threads = append(threads, thread)
		}
	}

	return pagination.Page[views.CommentThread]{
		Items:      threads,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// Replies returns one window of a thread's replies in creation order. The
// first page (no cursor) overfetches by two and drops the first row: the
// chronologically-first reply is the thread's top reply and is already on
// screen in the feed summary.
func (s *CommentService) Replies(viewerID, rootID uint, cursor string, size int) (pagination.Page[views.CommentView], error) {
	size = pagination.ClampSize(size)
	lastID, hasCursor := pagination.ParseIDCursor(cursor)

	var replies []models.Comment
	var err error
	if hasCursor {
		replies, err = s.store.RepliesAfter(rootID, lastID, size+1)
	} else {
		replies, err = s.store.RepliesAfter(rootID, 0, size+2)
		if err == nil && len(replies) > 0 {
			replies = replies[1:]
		}
	}
	if err != nil {
		return pagination.Page[views.CommentView]{}, fmt.Errorf("failed to scan replies: %w", err)
	}

	page := pagination.BuildPage(replies, size, func(c models.Comment) string {
		return pagination.FormatIDCursor(c.ID)
	})

	items, err := s.assembleViews(viewerID, page.Items)
	if err != nil {
		return pagination.Page[views.CommentView]{}, err
	}

	return pagination.Page[views.CommentView]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// assembleViews batch-resolves authors and viewer like-state for a slice of
// comments and stamps the views.
func (s *CommentService) assembleViews(viewerID uint, comments []models.Comment) ([]views.CommentView, error) {
	out := make([]views.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	userIDSet := make(map[uint]struct{}, len(comments))
	commentIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		userIDSet[c.UserID] = struct{}{}
		commentIDs = append(commentIDs, c.ID)
	}
	userIDs := make([]uint, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	users, err := s.store.UsersByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}
	liked, err := s.store.LikedCommentIDs(viewerID, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load like state: %w", err)
	}

	for _, c := range comments {
		out = append(out, views.NewCommentView(c, users, liked))
	}
	return out, nil
}
