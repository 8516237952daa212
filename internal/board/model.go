package board

import (
	"time"

	"github.com/DanmmGuide/server/internal/user"
)

type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"not null;type:text" json:"content"`
	LikeCount    int64     `gorm:"not null;default:0" json:"like_count"`
	CommentCount int64     `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLike rows are the source of truth for post.like_count; the pair is
// unique so a user holds at most one like per post.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_post_likes_post_user;not null" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"uniqueIndex:idx_post_likes_post_user;not null" json:"user_id"`
	User      user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type PostImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    uint   `gorm:"index;not null" json:"post_id"`
	Post      Post   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ImagePath string `gorm:"not null" json:"image_path"`
}

func (PostImage) TableName() string {
	return "post_images"
}
