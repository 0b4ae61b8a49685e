package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/pagination"
	"github.com/rednote/backend/internal/service"
	"github.com/rednote/backend/internal/util"
)

// PublishPost handles POST /api/v1/posts. The body is multipart: text fields
// plus one to nine image files under "images".
func (h *Handlers) PublishPost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		util.RespondBadRequest(c, "invalid multipart form: "+err.Error())
		return
	}

	in := service.PublishPostInput{
		Title:     c.PostForm("title"),
		Content:   c.PostForm("content"),
		ImgWidth:  util.ParseInt(c.PostForm("img_width"), 0),
		ImgHeight: util.ParseInt(c.PostForm("img_height"), 0),
	}

	for _, fileHeader := range form.File["images"] {
		data, err := readUpload(fileHeader)
		if err != nil {
			util.RespondBadRequest(c, err.Error())
			return
		}
		in.Images = append(in.Images, service.ImageUpload{
			Data:     data,
			Filename: fileHeader.Filename,
		})
	}

	detail, err := h.posts.Publish(c.Request.Context(), userID, in)
	if err != nil {
		util.RespondServiceError(c, err, "failed to publish post")
		return
	}

	logger.Log.Info("Post published",
		logger.WithUserID(userID),
		logger.WithPostID(detail.ID),
	)
	util.RespondCreated(c, detail)
}

// PostFeed handles GET /api/v1/posts/feed
func (h *Handlers) PostFeed(c *gin.Context) {
	viewerID := util.ViewerIDFromContext(c)
	cursor := c.Query("cursor")
	size := util.ParseInt(c.Query("size"), pagination.DefaultPageSize)

	page, err := h.posts.Feed(viewerID, cursor, size)
	if err != nil {
		util.RespondServiceError(c, err, "failed to load post feed")
		return
	}

	util.RespondOK(c, page)
}

// PostDetail handles GET /api/v1/posts/:id
func (h *Handlers) PostDetail(c *gin.Context) {
	postID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid post id")
		return
	}

	viewerID := util.ViewerIDFromContext(c)

	detail, err := h.posts.Detail(viewerID, postID)
	if err != nil {
		util.RespondServiceError(c, err, "failed to load post")
		return
	}

	util.RespondOK(c, detail)
}

// LikePost handles POST /api/v1/posts/:id/like with body {"liked": bool}.
func (h *Handlers) LikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	postID, err := util.ParseUintParam(c.Param("id"))
	if err != nil {
		util.RespondBadRequest(c, "invalid post id")
		return
	}

	var req struct {
		Liked bool `json:"liked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.likes.SetPostLike(postID, userID, req.Liked); err != nil {
		util.RespondServiceError(c, err, "failed to update like")
		return
	}

	util.RespondOK(c, gin.H{"liked": req.Liked})
}
