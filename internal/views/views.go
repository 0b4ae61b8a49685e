// Package views maps raw entities into response view objects. Every lookup
// (author identity, viewer like-state) arrives as a pre-fetched map from
// the caller; nothing in this package touches storage, which is what keeps
// per-row queries out of the feed paths.
package views

import (
	"time"

	"github.com/rednote/backend/internal/models"
)

// PostCard is the compact feed entry: first image plus its aspect hint.
type PostCard struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	LikeCount int    `json:"like_count"`
	IsLiked   bool   `json:"is_liked"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// PostDetail is the full post view.
type PostDetail struct {
	ID           uint      `json:"id"`
	AuthorID     uint      `json:"author_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Images       []string  `json:"images"`
	ImgWidth     int       `json:"img_width"`
	ImgHeight    int       `json:"img_height"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	IsLiked      bool      `json:"is_liked"`
	Nickname     string    `json:"nickname"`
	AvatarURL    string    `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentView is a single comment stamped with author and viewer state.
type CommentView struct {
	ID            uint      `json:"id"`
	PostID        uint      `json:"post_id"`
	UserID        uint      `json:"user_id"`
	Content       string    `json:"content"`
	LikeCount     int       `json:"like_count"`
	ReplyToUserID *uint     `json:"reply_to_user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ImageURL      string    `json:"image_url,omitempty"`
	ImageWidth    *int      `json:"image_width,omitempty"`
	ImageHeight   *int      `json:"image_height,omitempty"`
	Nickname      string    `json:"nickname"`
	AvatarURL     string    `json:"avatar_url"`
	IsLiked       bool      `json:"is_liked"`
}

// CommentThread is a feed summary: the root comment, its total descendant
// count, and the single top reply surfaced inline.
type CommentThread struct {
	CommentView
	ReplyCount int64        `json:"reply_count"`
	TopReply   *CommentView `json:"top_reply,omitempty"`
}

// NewPostCard stamps a feed card from pre-fetched lookup maps.
func NewPostCard(post models.Post, users map[uint]models.User, liked map[uint]bool) PostCard {
	card := PostCard{
		ID:        post.ID,
		Title:     post.Title,
		Image:     post.Images.First(),
		Width:     post.ImgWidth,
		Height:    post.ImgHeight,
		LikeCount: post.LikeCount,
		IsLiked:   liked[post.ID],
	}
	if user, ok := users[post.UserID]; ok {
		card.Nickname = user.Nickname
		card.AvatarURL = user.AvatarURL
	}
	return card
}

// NewPostDetail stamps the full post view.
func NewPostDetail(post models.Post, author *models.User, isLiked bool) PostDetail {
	detail := PostDetail{
		ID:           post.ID,
		AuthorID:     post.UserID,
		Title:        post.Title,
		Content:      post.Content,
		Images:       post.Images,
		ImgWidth:     post.ImgWidth,
		ImgHeight:    post.ImgHeight,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		IsLiked:      isLiked,
		CreatedAt:    post.CreatedAt,
	}
	if detail.Images == nil {
		detail.Images = []string{}
	}
	if author != nil {
		detail.Nickname = author.Nickname
		detail.AvatarURL = author.AvatarURL
	}
	return detail
}

// NewCommentView stamps a comment from pre-fetched lookup maps.
func NewCommentView(comment models.Comment, users map[uint]models.User, liked map[uint]bool) CommentView {
	view := CommentView{
		ID:            comment.ID,
		PostID:        comment.PostID,
		UserID:        comment.UserID,
		Content:       comment.Content,
		LikeCount:     comment.LikeCount,
		ReplyToUserID: comment.ReplyToUserID,
		CreatedAt:     comment.CreatedAt,
		ImageURL:      comment.ImageURL,
		ImageWidth:    comment.ImageWidth,
		ImageHeight:   comment.ImageHeight,
		IsLiked:       liked[comment.ID],
	}
	if user, ok := users[comment.UserID]; ok {
		view.Nickname = user.Nickname
		view.AvatarURL = user.AvatarURL
	}
	return view
}

// UserInfo is the public profile view.
type UserInfo struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// NewUserInfo maps a user row to its public view.
func NewUserInfo(user models.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
	}
}
