package models

import (
	"time"
)

// User is an account that can publish posts, comment and like.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Nickname     string `gorm:"not null" json:"nickname"`
	AvatarURL    string `json:"avatar_url"`
	Bio          string `gorm:"type:text" json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is an image-set publication. The like and comment counters are
// denormalized projections of the ledger tables; they are only ever bumped
// with relative deltas at the storage layer.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	// Stored as a JSON array of URLs.
	Images StringList `gorm:"serializer:json" json:"images"`

	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`

	// Aspect ratio hint for the first image, supplied at publish time.
	ImgWidth  int `json:"img_width"`
	ImgHeight int `json:"img_height"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment threading is flattened at write time: RootParentID always points
// at the root comment of the thread, never at an intermediate reply, so a
// reply graph of any depth renders as a two-level hierarchy.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Content string `gorm:"type:text;not null" json:"content"`

	LikeCount int `gorm:"not null;default:0" json:"like_count"`

	// ParentID is the direct parent comment; nil for root comments.
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`
	// RootParentID is nil exactly when ParentID is nil.
	RootParentID *uint `gorm:"index" json:"root_parent_id,omitempty"`
	// ReplyToUserID names who this reply addresses in the UI.
	ReplyToUserID *uint `json:"reply_to_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Optional image attachment.
	ImageURL    string `json:"image_url,omitempty"`
	ImageWidth  *int   `json:"image_width,omitempty"`
	ImageHeight *int   `json:"image_height,omitempty"`
}

// PostLike is a like fact for a post. The unique (post_id, user_id) index is
// the serialization point that keeps concurrent likes from double-counting.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is a like fact for a comment, same uniqueness discipline as
// PostLike.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_likes_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the comment is attached directly to its post.
func (c *Comment) IsRoot() bool {
	return c.RootParentID == nil
}

// StringList is an ordered list of image URLs stored as a JSON column.
type StringList []string

// First returns the first URL or "" when the list is empty.
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
