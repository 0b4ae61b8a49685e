package views

import (
	"testing"

	"github.com/rednote/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNewPostCard(t *testing.T) {
	post := models.Post{
		ID:        7,
		UserID:    3,
		Title:     "sunset",
		Images:    models.StringList{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		ImgWidth:  1080,
		ImgHeight: 1440,
		LikeCount: 12,
	}
	users := map[uint]models.User{3: {ID: 3, Nickname: "mina", AvatarURL: "https://cdn.example.com/av.png"}}
	liked := map[uint]bool{7: true}

	card := NewPostCard(post, users, liked)

	assert.Equal(t, "https://cdn.example.com/a.jpg", card.Image)
	assert.Equal(t, 1080, card.Width)
	assert.Equal(t, "mina", card.Nickname)
	assert.True(t, card.IsLiked)
}

func TestNewPostCardUnknownAuthorAndAnonymousViewer(t *testing.T) {
	post := models.Post{ID: 9, UserID: 99, Title: "no author"}

	card := NewPostCard(post, map[uint]models.User{}, map[uint]bool{})

	assert.Empty(t, card.Nickname)
	assert.Empty(t, card.AvatarURL)
	assert.False(t, card.IsLiked)
}

func TestNewCommentView(t *testing.T) {
	replyTo := uint(5)
	comment := models.Comment{
		ID:            21,
		PostID:        7,
		UserID:        4,
		Content:       "nice shot",
		LikeCount:     2,
		ReplyToUserID: &replyTo,
	}
	users := map[uint]models.User{4: {ID: 4, Nickname: "leo"}}

	view := NewCommentView(comment, users, map[uint]bool{21: true})

	assert.Equal(t, "leo", view.Nickname)
	assert.True(t, view.IsLiked)
	assert.Equal(t, &replyTo, view.ReplyToUserID)
}

func TestNewPostDetailNilImages(t *testing.T) {
	detail := NewPostDetail(models.Post{ID: 1}, nil, false)

	assert.NotNil(t, detail.Images)
	assert.Empty(t, detail.Nickname)
}
