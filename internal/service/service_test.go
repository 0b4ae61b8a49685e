package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestStore opens a fresh in-memory database with the full schema.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger.InitializeForTests()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
	))

	return store.New(db)
}

// fakeBlobStore stands in for S3 in service tests.
type fakeBlobStore struct {
	uploads    int
	failUpload bool
	failProbe  bool
	width      int
	height     int
}

func (f *fakeBlobStore) UploadImage(_ context.Context, _ []byte, filename string, userID uint) (string, error) {
	if f.failUpload {
		return "", errors.New("bucket unavailable")
	}
	f.uploads++
	return fmt.Sprintf("https://cdn.test/%d/%d-%s", userID, f.uploads, filename), nil
}

func (f *fakeBlobStore) ProbeDimensions(_ []byte) (int, int, error) {
	if f.failProbe {
		return 0, 0, errors.New("unrecognized format")
	}
	return f.width, f.height, nil
}

func seedUser(t *testing.T, st *store.Store, nickname string) models.User {
	t.Helper()
	user := models.User{
		Email:        nickname + "@example.com",
		PasswordHash: "x",
		Nickname:     nickname,
	}
	require.NoError(t, st.CreateUser(&user))
	return user
}

func seedPost(t *testing.T, st *store.Store, userID uint, title string) models.Post {
	t.Helper()
	post := models.Post{
		UserID: userID,
		Title:  title,
		Images: models.StringList{"https://cdn.test/a.jpg"},
	}
	require.NoError(t, st.CreatePost(&post))
	return post
}

func seedRootComment(t *testing.T, st *store.Store, postID, userID uint, content string, likeCount int) models.Comment {
	t.Helper()
	comment := models.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		LikeCount: likeCount,
	}
	require.NoError(t, st.CreateComment(&comment))
	return comment
}

func seedReply(t *testing.T, st *store.Store, root *models.Comment, userID uint, content string, createdAt time.Time) models.Comment {
	t.Helper()
	reply := models.Comment{
		PostID:       root.PostID,
		UserID:       userID,
		Content:      content,
		ParentID:     &root.ID,
		RootParentID: &root.ID,
		CreatedAt:    createdAt,
	}
	require.NoError(t, st.CreateComment(&reply))
	return reply
}
