package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/util"
	"go.uber.org/zap"

	"github.com/rednote/backend/internal/auth"
)

// maxImageBytes caps a single uploaded image blob.
const maxImageBytes = 10 << 20

var errTooLarge = errors.New("image exceeds the 10MB limit")

// Register handles POST /api/v1/users/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		util.RespondServiceError(c, err, "failed to register user")
		return
	}

	logger.Log.Info("User registered",
		logger.WithUserID(resp.User.ID),
		zap.String("email", resp.User.Email),
	)
	util.RespondCreated(c, resp)
}

// Login handles POST /api/v1/users/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		util.RespondServiceError(c, err, "failed to log in")
		return
	}

	util.RespondOK(c, resp)
}

// Me handles GET /api/v1/users/me
func (h *Handlers) Me(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.store.UserByID(userID)
	if err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	util.RespondOK(c, user)
}

// UploadAvatar handles POST /api/v1/users/avatar
func (h *Handlers) UploadAvatar(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		util.RespondBadRequest(c, "avatar file is required")
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	url, err := h.blobs.UploadImage(c.Request.Context(), data, fileHeader.Filename, userID)
	if err != nil {
		logger.Log.Error("Avatar upload failed",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to upload avatar")
		return
	}

	if err := h.store.UpdateAvatar(userID, url); err != nil {
		util.RespondServiceError(c, err, "failed to update avatar")
		return
	}

	util.RespondOK(c, gin.H{"avatar_url": url})
}

// readUpload slurps one multipart file into memory, bounded by maxImageBytes.
func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > maxImageBytes {
		return nil, errTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, maxImageBytes))
}
