// Package handlers is the HTTP boundary. Handlers parse the request, thread
// the actor id into the services and wrap results in the response envelope;
// no business rules live here.
package handlers

import (
	"github.com/rednote/backend/internal/auth"
	"github.com/rednote/backend/internal/service"
	"github.com/rednote/backend/internal/storage"
	"github.com/rednote/backend/internal/store"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth     *auth.Service
	posts    *service.PostService
	comments *service.CommentService
	likes    *service.LikeService
	blobs    storage.BlobStore
	store    *store.Store
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, st *store.Store, blobs storage.BlobStore) *Handlers {
	return &Handlers{
		auth:     authService,
		posts:    service.NewPostService(st, blobs),
		comments: service.NewCommentService(st, blobs),
		likes:    service.NewLikeService(st),
		blobs:    blobs,
		store:    st,
	}
}
