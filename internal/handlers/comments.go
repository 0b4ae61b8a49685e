package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/pagination"
	"github.com/rednote/backend/internal/service"
	"github.com/rednote/backend/internal/util"
	"go.uber.org/zap"
)

// PublishComment handles POST /api/v1/comments. Multipart: post_id and
// content fields, optional parent_id/reply_to_user_id, optional "image" file
// with optional image_width/image_height hints.
func (h *Handlers) PublishComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	postID, err := util.ParseUintParam(c.PostForm("post_id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid post_id")
		return
	}

	in := service.PublishCommentInput{
		PostID:        postID,
		Content:       c.PostForm("content"),
		ParentID:      util.ParseOptionalUint(c.PostForm("parent_id")),
		ReplyToUserID: util.ParseOptionalUint(c.PostForm("reply_to_user_id")),
		ImageWidth:    util.ParseOptionalInt(c.PostForm("image_width")),
		ImageHeight:   util.ParseOptionalInt(c.PostForm("image_height")),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		data, err := readUpload(fileHeader)
		if err != nil {
			util.RespondBadRequest(c, err.Error())
			return
		}
		in.Image = &service.ImageUpload{
			Data:     data,
			Filename: fileHeader.Filename,
		}
	}

	view, err := h.comments.Publish(c.Request.Context(), userID, in)
	if err != nil {
		util.RespondServiceError(c, err, "failed to publish comment")
		return
	}

	logger.Log.Info("Comment published",
		logger.WithUserID(userID),
		logger.WithPostID(postID),
		zap.Uint("comment_id", view.ID),
	)
	util.RespondCreated(c, view)
}

// RootComments handles GET /api/v1/posts/:id/comments
func (h *Handlers) RootComments(c *gin.Context) {
	postID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid post id")
		return
	}

	viewerID := util.ViewerIDFromContext(c)

	comments, err := h.comments.RootComments(viewerID, postID)
	if err != nil {
		util.RespondServiceError(c, err, "failed to load comments")
		return
	}

	util.RespondOK(c, comments)
}

// CommentFeed handles GET /api/v1/posts/:id/comments/feed
func (h *Handlers) CommentFeed(c *gin.Context) {
	postID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid post id")
		return
	}

	viewerID := util.ViewerIDFromContext(c)
	cursor := c.Query("cursor")
	size := util.ParseInt(c.Query("size"), pagination.DefaultPageSize)

	page, err := h.comments.Feed(viewerID, postID, cursor, size)
	if err != nil {
		util.RespondServiceError(c, err, "failed to load comment feed")
		return
	}

	util.RespondOK(c, page)
}

// Replies handles GET /api/v1/comments/:id/replies
func (h *Handlers) Replies(c *gin.Context) {
	rootID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid comment id")
		return
	}

	viewerID := util.ViewerIDFromContext(c)
	cursor := c.Query("cursor")
	size := util.ParseInt(c.Query("size"), pagination.DefaultPageSize)

	page, err := h.comments.Replies(viewerID, rootID, cursor, size)
	if err != nil {
		util.RespondServiceError(c, err, "failed to load replies")
		return
	}

	util.RespondOK(c, page)
}

// LikeComment handles POST /api/v1/comments/:id/like with body {"liked": bool}.
func (h *Handlers) LikeComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	commentID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid comment id")
		return
	}

	var req struct {
		Liked bool `json:"liked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.likes.SetCommentLike(commentID, userID, req.Liked); err != nil {
		util.RespondServiceError(c, err, "failed to update like")
		return
	}

	util.RespondOK(c, gin.H{"liked": req.Liked})
}
