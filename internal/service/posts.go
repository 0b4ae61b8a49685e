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

// ImageUpload is a raw image blob handed in by the request boundary.
type ImageUpload struct {
	Data     []byte
	Filename string
}

// MaxPostImages caps the image set of a single post.
const MaxPostImages = 9

// PostService owns post publishing, the descending-id feed window and the
// post detail view.
type PostService struct {
	store *store.Store
	blobs storage.BlobStore
}

// NewPostService creates the post service.
func NewPostService(st *store.Store, blobs storage.BlobStore) *PostService {
	return &PostService{store: st, blobs: blobs}
}

// PublishPostInput carries everything a publish needs; the actor id arrives
// separately, threaded from the request context.
type PublishPostInput struct {
	Title     string
	Content   string
	ImgWidth  int
	ImgHeight int
	Images    []ImageUpload
}

// Publish uploads the image set and creates the post. Any upload failure is
// fatal: a post without its images is not worth saving. A blob uploaded
// before a later failure is left orphaned on purpose; no compensation.
func (s *PostService) Publish(ctx context.Context, actorID uint, in PublishPostInput) (*views.PostDetail, error) {
	if in.Title == "" {
		return nil, apierrors.ValidationError("title", "title is required")
	}
	if len(in.Images) == 0 {
		return nil, apierrors.ValidationError("images", "at least one image is required")
	}
	if len(in.Images) > MaxPostImages {
		return nil, apierrors.ValidationError("images", fmt.Sprintf("at most %d images allowed", MaxPostImages))
	}

	urls := make(models.StringList, 0, len(in.Images))
	for _, img := range in.Images {
		url, err := s.blobs.UploadImage(ctx, img.Data, img.Filename, actorID)
		if err != nil {
			logger.ErrorWithFields("Image upload failed during post publish", err)
			return nil, apierrors.Upstream("media store")
		}
		urls = append(urls, url)
	}

	post := models.Post{
		UserID:    actorID,
		Title:     in.Title,
		Content:   in.Content,
		Images:    urls,
		ImgWidth:  in.ImgWidth,
		ImgHeight: in.ImgHeight,
	}
	if err := s.store.CreatePost(&post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	author, err := s.store.UserByID(actorID)
	if err != nil {
		logger.WarnWithFields("Failed to load author for fresh post", err)
	}
	detail := views.NewPostDetail(post, author, false)
	return &detail, nil
}

// Feed returns one window of the global post feed. The cursor is the last
// seen id; a missing or malformed cursor starts from the top.
func (s *PostService) Feed(viewerID uint, cursor string, size int) (pagination.Page[views.PostCard], error) {
	size = pagination.ClampSize(size)
	lastID, _ := pagination.ParseIDCursor(cursor)

	posts, err := s.store.ListPostsBefore(lastID, size+1)
	if err != nil {
		return pagination.Page[views.PostCard]{}, fmt.Errorf("failed to scan post feed: %w", err)
	}

	page := pagination.BuildPage(posts, size, func(p models.Post) string {
		return pagination.FormatIDCursor(p.ID)
	})

	cards := make([]views.PostCard, 0, len(page.Items))
	if len(page.Items) > 0 {
		authorIDs := make([]uint, 0, len(page.Items))
		postIDs := make([]uint, 0, len(page.Items))
		for _, p := range page.Items {
			authorIDs = append(authorIDs, p.UserID)
			postIDs = append(postIDs, p.ID)
		}

		users, err := s.store.UsersByIDs(authorIDs)
		if err != nil {
			return pagination.Page[views.PostCard]{}, fmt.Errorf("failed to load feed authors: %w", err)
		}
		liked, err := s.store.LikedPostIDs(viewerID, postIDs)
		if err != nil {
			return pagination.Page[views.PostCard]{}, fmt.Errorf("failed to load like state: %w", err)
		}

		for _, p := range page.Items {
			cards = append(cards, views.NewPostCard(p, users, liked))
		}
	}

	return pagination.Page[views.PostCard]{
		Items:      cards,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// Detail returns the full post view for one post.
func (s *PostService) Detail(viewerID, postID uint) (*views.PostDetail, error) {
	post, err := s.store.PostByID(postID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	author, err := s.store.UserByID(post.UserID)
	if err != nil && !store.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load post author: %w", err)
	}

	isLiked := false
	if viewerID != 0 {
		isLiked, err = s.store.HasPostLike(postID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load like state: %w", err)
		}
	}

	detail := views.NewPostDetail(*post, author, isLiked)
	return &detail, nil
}
