package board

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// PostSummary is a post row joined with its author's display name.
type PostSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	AuthorName   string    `json:"author_name"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

type CommentView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name"`
}

const postSummarySelect = "posts.id, posts.title, posts.content, posts.created_at, " +
	"users.username AS author_name, posts.like_count, posts.comment_count"

func listPosts(db *gorm.DB) ([]PostSummary, error) {
	var rows []PostSummary
	err := db.Table("posts").
		Select(postSummarySelect).
		Joins("JOIN users ON users.id = posts.user_id").
		Order("posts.created_at DESC, posts.id DESC").
		Scan(&rows).Error
	return rows, err
}

func getPostSummary(db *gorm.DB, postID uint) (*PostSummary, error) {
	var row PostSummary
	err := db.Table("posts").
		Select(postSummarySelect).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.id = ?", postID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func postExists(db *gorm.DB, postID uint) (bool, error) {
	var count int64
	err := db.Model(&Post{}).Where("id = ?", postID).Count(&count).Error
	return count > 0, err
}

func listComments(db *gorm.DB, postID uint) ([]CommentView, error) {
	var rows []CommentView
	err := db.Table("comments").
		Select("comments.id, comments.user_id, comments.content, comments.created_at, users.username AS author_name").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&rows).Error
	return rows, err
}

func imagePaths(db *gorm.DB, postID uint) ([]string, error) {
	var paths []string
	err := db.Model(&PostImage{}).
		Where("post_id = ?", postID).
		Order("id ASC").
		Pluck("image_path", &paths).Error
	return paths, err
}

// likedPostIDs returns the set of post ids the user currently likes, for
// annotating a whole listing in one query.
func likedPostIDs(db *gorm.DB, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&PostLike{}).Where("user_id = ?", userID).Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func likedBy(db *gorm.DB, postID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// recountPost recomputes both denormalized counters from the detail tables
// and persists them. It is the only place the counters are written; callers
// run it inside the same transaction as the write that changed them.
func recountPost(tx *gorm.DB, postID uint) (likeCount, commentCount int64, err error) {
	if err = tx.Model(&PostLike{}).Where("post_id = ?", postID).Count(&likeCount).Error; err != nil {
		return 0, 0, err
	}
	if err = tx.Model(&Comment{}).Where("post_id = ?", postID).Count(&commentCount).Error; err != nil {
		return 0, 0, err
	}
	err = tx.Model(&Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"like_count":    likeCount,
		"comment_count": commentCount,
	}).Error
	return likeCount, commentCount, err
}

// CreateComment inserts the comment and refreshes the parent's comment_count
// in one transaction.
func CreateComment(db *gorm.DB, postID, userID uint, content string) (*Comment, error) {
	comment := Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		_, _, err := recountPost(tx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleLike flips the (post, user) like row and refreshes like_count. The
// exists-check and the insert-or-delete run in a single transaction so two
// concurrent toggles for the same pair cannot double-count.
func ToggleLike(db *gorm.DB, postID, userID uint) (liked bool, likeCount int64, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing PostLike
		findErr := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case findErr == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			newLike := PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now()}
			if err := tx.Create(&newLike).Error; err != nil {
				return err
			}
			liked = true
		default:
			return findErr
		}

		likeCount, _, err = recountPost(tx, postID)
		return err
	})
	return liked, likeCount, err
}

// ResyncCounters re-derives both counters during a detail read so a stale
// cached value heals itself before it is served.
func ResyncCounters(db *gorm.DB, postID uint) (likeCount, commentCount int64, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		likeCount, commentCount, err = recountPost(tx, postID)
		return err
	})
	return likeCount, commentCount, err
}
