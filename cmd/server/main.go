package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/DanmmGuide/server/internal/board"
	"github.com/DanmmGuide/server/internal/breed"
	"github.com/DanmmGuide/server/internal/config"
	"github.com/DanmmGuide/server/internal/database"
	"github.com/DanmmGuide/server/internal/logs"
	"github.com/DanmmGuide/server/internal/middleware"
	"github.com/DanmmGuide/server/internal/mypage"
	"github.com/DanmmGuide/server/internal/storage"
	"github.com/DanmmGuide/server/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		logs.LogJSON("FATAL", "Database connection failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	err = db.AutoMigrate(
		&user.User{},
		&board.Post{},
		&board.Comment{},
		&board.PostLike{},
		&board.PostImage{},
		&mypage.Profile{},
		&breed.DogBreed{},
	)
	if err != nil {
		logs.LogJSON("FATAL", "Migration failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		logs.LogJSON("FATAL", "Upload dir unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	dogClient := breed.NewClient(cfg.DogAPIBaseURL, cfg.DogAPIKey)
	translator := breed.NewTranslator(cfg.TranslateAPIURL)
	syncer := breed.NewSyncer(db, dogClient, translator)

	// First-boot catalog fill, off the request path. Later refreshes go
	// through POST /api/admin/sync_breeds.
	go func() {
		saved, err := syncer.SyncIfEmpty()
		if err != nil {
			logs.LogJSON("ERROR", "Startup breed sync failed", map[string]interface{}{"error": err.Error()})
			return
		}
		if saved > 0 {
			logs.LogJSON("INFO", "Breed catalog synced", map[string]interface{}{"saved": saved})
		}
	}()

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	boardHandler := board.NewHandler(db, store)
	mypageHandler := mypage.NewHandler(db)
	breedHandler := breed.NewHandler(db, syncer)

	r := gin.Default()
	r.Static("/static/post_images", cfg.UploadDir)
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/users/register", userHandler.Register)
	api.POST("/users/login", userHandler.Login)
	api.GET("/users/check", userHandler.CheckUsername)
	api.POST("/users/delete", userHandler.Delete)

	api.GET("/posts", middleware.OptionalAuthMiddleware(cfg.JWTSecret), boardHandler.ListPosts)
	api.POST("/posts", boardHandler.CreatePost)
	api.GET("/posts/:id", middleware.OptionalAuthMiddleware(cfg.JWTSecret), boardHandler.GetPostDetail)
	api.GET("/posts/:id/comments", boardHandler.ListComments)
	api.POST("/posts/:id/comments", boardHandler.CreateComment)
	api.POST("/posts/:id/like", boardHandler.ToggleLike)
	api.POST("/posts/:id/images", boardHandler.UploadImages)

	api.GET("/my_page/:user_id", mypageHandler.GetMyPage)
	api.PUT("/my_page/:user_id", mypageHandler.UpdateMyPage)

	api.GET("/breeds", breedHandler.ListBreeds)
	api.GET("/breeds/:id", breedHandler.GetBreed)

	adminAPI := api.Group("/admin")
	adminAPI.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminAPI.POST("/sync_breeds", breedHandler.SyncBreeds)

	if err := r.Run(":" + cfg.Port); err != nil {
		logs.LogJSON("FATAL", "Server stopped", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
