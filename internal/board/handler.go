package board

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/logs"
	"github.com/DanmmGuide/server/internal/storage"
	"github.com/DanmmGuide/server/internal/user"
)

const imageURLPrefix = "/static/post_images/"

type Handler struct {
	db    *gorm.DB
	store *storage.Store
}

func NewHandler(db *gorm.DB, store *storage.Store) *Handler {
	return &Handler{db: db, store: store}
}

// ListPosts GET /api/posts
func (h *Handler) ListPosts(c *gin.Context) {
	route := c.FullPath()

	rows, err := listPosts(h.db)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "post listing failed")
		logs.LogJSON("ERROR", "Post listing failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	liked := map[uint]bool{}
	if caller := callerID(c); caller != 0 {
		liked, err = likedPostIDs(h.db, caller)
		if err != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "post listing failed")
			logs.LogJSON("ERROR", "Like lookup failed", map[string]interface{}{
				"error": err.Error(),
				"route": route,
			})
			return
		}
	}

	posts := make([]gin.H, 0, len(rows))
	for _, p := range rows {
		images, err := imagePaths(h.db, p.ID)
		if err != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "post listing failed")
			logs.LogJSON("ERROR", "Image listing failed", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"postID": p.ID,
			})
			return
		}

		entry := gin.H{
			"id":            p.ID,
			"title":         p.Title,
			"content":       p.Content,
			"created_at":    p.CreatedAt,
			"author_name":   p.AuthorName,
			"like_count":    p.LikeCount,
			"comment_count": p.CommentCount,
			"images":        publicImageURLs(images),
			"thumbnail":     nil,
			"liked_by_me":   liked[p.ID],
		}
		if len(images) > 0 {
			entry["thumbnail"] = imageURLPrefix + images[0]
		}
		posts = append(posts, entry)
	}

	apperr.OK(c, http.StatusOK, gin.H{"posts": posts})
}

// CreatePost POST /api/posts
func (h *Handler) CreatePost(c *gin.Context) {
	route := c.FullPath()

	var input struct {
		UserID  uint   `json:"user_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BindJSON(&input); err != nil {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid request body")
		return
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if input.UserID == 0 || title == "" || content == "" {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "user_id, title and content are required")
		return
	}

	var author user.User
	if err := h.db.First(&author, "id = ?", input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "user not found")
			logs.LogJSON("WARN", "Post author not found", map[string]interface{}{
				"route":  route,
				"userID": input.UserID,
			})
			return
		}
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	newPost := Post{
		UserID:    input.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&newPost).Error; err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "post creation failed")
		logs.LogJSON("ERROR", "Post creation failed", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	apperr.OK(c, http.StatusCreated, gin.H{
		"post": gin.H{
			"id":            newPost.ID,
			"title":         newPost.Title,
			"content":       newPost.Content,
			"created_at":    newPost.CreatedAt,
			"author_name":   author.Username,
			"like_count":    newPost.LikeCount,
			"comment_count": newPost.CommentCount,
			"images":        []string{},
		},
	})
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  route,
		"postID": newPost.ID,
		"userID": input.UserID,
	})
}

// ListComments GET /api/posts/:id/comments
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := h.requirePost(c)
	if !ok {
		return
	}

	comments, err := listComments(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "comment listing failed")
		logs.LogJSON("ERROR", "Comment listing failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"postID": postID,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"comments": comments})
}

// CreateComment POST /api/posts/:id/comments
func (h *Handler) CreateComment(c *gin.Context) {
	route := c.FullPath()

	postID, ok := h.requirePost(c)
	if !ok {
		return
	}

	var input struct {
		UserID  uint   `json:"user_id"`
		Content string `json:"content"`
	}
	if err := c.BindJSON(&input); err != nil {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "invalid request body")
		return
	}

	content := strings.TrimSpace(input.Content)
	if input.UserID == 0 || content == "" {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "user_id and content are required")
		return
	}

	var author user.User
	if err := h.db.First(&author, "id = ?", input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "user not found")
			return
		}
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	comment, err := CreateComment(h.db, postID, input.UserID, content)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "comment creation failed")
		logs.LogJSON("ERROR", "Comment creation failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"postID": postID,
			"userID": input.UserID,
		})
		return
	}

	apperr.OK(c, http.StatusCreated, gin.H{
		"comment": CommentView{
			ID:         comment.ID,
			UserID:     comment.UserID,
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt,
			AuthorName: author.Username,
		},
	})
}

// ToggleLike POST /api/posts/:id/like
func (h *Handler) ToggleLike(c *gin.Context) {
	route := c.FullPath()

	postID, ok := h.requirePost(c)
	if !ok {
		return
	}

	var input struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BindJSON(&input); err != nil || input.UserID == 0 {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "user_id is required")
		return
	}

	exists, err := user.ExistsByID(h.db, input.UserID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	if !exists {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "user not found")
		return
	}

	liked, likeCount, err := ToggleLike(h.db, postID, input.UserID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "like toggle failed")
		logs.LogJSON("ERROR", "Like toggle failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"postID": postID,
			"userID": input.UserID,
		})
		return
	}

	apperr.OK(c, http.StatusOK, gin.H{"liked": liked, "like_count": likeCount})
}

// UploadImages POST /api/posts/:id/images
func (h *Handler) UploadImages(c *gin.Context) {
	route := c.FullPath()

	postID, ok := h.requirePost(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "multipart form required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "'images' field is required")
		return
	}

	// Validate every file before persisting anything.
	for _, header := range files {
		if !storage.AllowedExtension(header.Filename) {
			apperr.Fail(c, http.StatusBadRequest, apperr.InvalidInput, "file type not allowed")
			logs.LogJSON("WARN", "Disallowed upload type", map[string]interface{}{
				"route":    route,
				"postID":   postID,
				"filename": header.Filename,
			})
			return
		}
	}

	saved := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "upload failed")
			logs.LogJSON("ERROR", "Upload open failed", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"postID": postID,
			})
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		filename := fmt.Sprintf("%d_%s%s", postID, uuid.New().String(), ext)

		saveErr := h.store.Save(file, filename)
		file.Close()
		if saveErr != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "upload failed")
			logs.LogJSON("ERROR", "Upload save failed", map[string]interface{}{
				"error":  saveErr.Error(),
				"route":  route,
				"postID": postID,
			})
			return
		}

		if err := h.db.Create(&PostImage{PostID: postID, ImagePath: filename}).Error; err != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "upload failed")
			logs.LogJSON("ERROR", "Image record creation failed", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"postID": postID,
			})
			return
		}
		saved = append(saved, filename)
	}

	apperr.OK(c, http.StatusCreated, gin.H{"files": saved})
	logs.LogJSON("INFO", "Images uploaded", map[string]interface{}{
		"route":  route,
		"postID": postID,
		"count":  len(saved),
	})
}

// GetPostDetail GET /api/posts/:id?user_id=
func (h *Handler) GetPostDetail(c *gin.Context) {
	route := c.FullPath()

	postID, ok := parsePostID(c)
	if !ok {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "post not found")
		return
	}

	summary, err := getPostSummary(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "post lookup failed")
		logs.LogJSON("ERROR", "Post lookup failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"postID": postID,
		})
		return
	}
	if summary == nil {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "post not found")
		return
	}

	likeCount, commentCount, err := ResyncCounters(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "counter resync failed")
		logs.LogJSON("ERROR", "Counter resync failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"postID": postID,
		})
		return
	}

	images, err := imagePaths(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "image listing failed")
		return
	}

	comments, err := listComments(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "comment listing failed")
		return
	}

	likedByMe := false
	if callerID := callerID(c); callerID != 0 {
		likedByMe, err = likedBy(h.db, postID, callerID)
		if err != nil {
			apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "like lookup failed")
			return
		}
	}

	detail := gin.H{
		"id":            summary.ID,
		"title":         summary.Title,
		"content":       summary.Content,
		"created_at":    summary.CreatedAt,
		"author_name":   summary.AuthorName,
		"like_count":    likeCount,
		"comment_count": commentCount,
		"images":        publicImageURLs(images),
		"thumbnail":     nil,
		"comments":      comments,
		"liked_by_me":   likedByMe,
	}
	if len(images) > 0 {
		detail["thumbnail"] = imageURLPrefix + images[0]
	}

	apperr.OK(c, http.StatusOK, gin.H{"post": detail})
}

// requirePost parses :id and answers 404 when the post is absent or the id is
// not numeric.
func (h *Handler) requirePost(c *gin.Context) (uint, bool) {
	postID, ok := parsePostID(c)
	if !ok {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "post not found")
		return 0, false
	}

	exists, err := postExists(h.db, postID)
	if err != nil {
		apperr.Fail(c, http.StatusInternalServerError, apperr.Fatal, "database error")
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"postID": postID,
		})
		return 0, false
	}
	if !exists {
		apperr.Fail(c, http.StatusNotFound, apperr.NotFound, "post not found")
		return 0, false
	}
	return postID, true
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// callerID resolves the requesting user: explicit ?user_id= wins, otherwise
// an identity set by the optional auth middleware. Zero means anonymous.
func callerID(c *gin.Context) uint {
	if q := c.Query("user_id"); q != "" {
		if id, err := strconv.ParseUint(q, 10, 64); err == nil {
			return uint(id)
		}
		return 0
	}
	if s := c.GetString("user_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}

func publicImageURLs(names []string) []string {
	urls := make([]string, 0, len(names))
	for _, name := range names {
		urls = append(urls, imageURLPrefix+name)
	}
	return urls
}
