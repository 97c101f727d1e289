package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/blogicum/internal/category"
	"github.com/VitaminP8/blogicum/internal/comment"
	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/internal/location"
	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/session"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/web"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/storage/database"
	"github.com/VitaminP8/blogicum/internal/storage/memory"
	"github.com/jinzhu/gorm"
)

type stores struct {
	posts      post.PostStorage
	comments   comment.CommentStorage
	users      user.UserStorage
	categories category.CategoryStorage
	locations  location.LocationStorage
}

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory, postgres или sqlite")
	seed := flag.Bool("seed", false, "Заполнить категории и местоположения демо-данными")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()
	cfg := config.Load()

	var s stores
	var db *gorm.DB
	var err error

	switch *storageType {
	case "postgres":
		db, err = database.Open("postgres", database.PostgresDSN())
	case "sqlite":
		db, err = database.Open("sqlite3", config.GetEnvDefault("SQLITE_PATH", "blogicum.db"))
	case "memory":
		logger.Info.Println("Используется in-memory хранилище")
		users := memory.NewUserMemoryStorage()
		categories := memory.NewCategoryMemoryStorage()
		locations := memory.NewLocationMemoryStorage()
		posts := memory.NewPostMemoryStorage(users, categories, locations)
		s = stores{
			posts:      posts,
			comments:   memory.NewCommentMemoryStorage(posts, users),
			users:      users,
			categories: categories,
			locations:  locations,
		}
	default:
		logger.Error.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}
	if err != nil {
		logger.Error.Fatalf("failed to open database: %v", err)
	}
	if db != nil {
		s = stores{
			posts:      database.NewPostStorage(db),
			comments:   database.NewCommentStorage(db),
			users:      database.NewUserStorage(db),
			categories: database.NewCategoryStorage(db),
			locations:  database.NewLocationStorage(db),
		}
	}

	if *seed {
		fillWithDemoData(s)
	}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			logger.Error.Fatalf("redis: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		logger.Info.Printf("Отозванные токены хранятся в Redis %s", cfg.RedisAddr)
	}

	mediaStorage, err := media.New(cfg.MediaDir, web.MediaPrefix)
	if err != nil {
		logger.Error.Fatalf("media: %v", err)
	}

	h := &web.Handler{
		PostStore:     s.posts,
		CommentStore:  s.comments,
		UserStore:     s.users,
		CategoryStore: s.categories,
		LocationStore: s.locations,
		Tokens:        auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Sessions:      sessions,
		Media:         mediaStorage,
		PageSize:      cfg.PageSize,

		CSRFKey:       []byte(cfg.CSRFKey),
		SecureCookies: cfg.SecureCookies,
	}

	// HTTP сервер
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h.Routes(),
		ErrorLog:     logger.Error,
		IdleTimeout:  time.Minute,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// ListenAndServe блокирует поток до server.Shutdown(), поэтому в goroutine
	go func() {
		logger.Info.Printf("Сервер запущен на http://localhost%s/", cfg.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info.Println("Завершение...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error.Printf("Ошибка при завершении сервера: %v", err)
	}

	if err := database.Close(db); err != nil {
		logger.Error.Println(err)
	}

	logger.Info.Println("Сервер остановлен корректно")
}
