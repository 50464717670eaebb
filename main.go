package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg := LoadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	index := NewContentIndex(cfg.ContentDir)

	// `sesja manifest [path]` writes the static manifest and exits
	if len(os.Args) > 1 && os.Args[1] == "manifest" {
		path := filepath.Join(cfg.ContentDir, "manifest.json")
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if _, err := WriteManifest(index, path); err != nil {
			slog.Error("manifest", "err", err)
			os.Exit(1)
		}
		return
	}

	// 1) DB
	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		slog.Error("open db", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	if err := AutoMigrate(db); err != nil {
		slog.Error("migrate", "err", err)
		os.Exit(1)
	}

	// 2) Content
	if subjects, err := index.Subjects(); err != nil {
		slog.Warn("content root unreadable", "dir", cfg.ContentDir, "err", err)
	} else {
		slog.Info("content loaded", "dir", cfg.ContentDir, "subjects", subjects)
	}

	// 3) Router
	store := NewSessionStore(db, cfg.TickInterval, cfg.SessionIdleTTL)
	defer store.Close()
	r := NewRouter(cfg, db, index, store)

	// 4) Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		slog.Info("listening", "addr", srv.Addr, "secureCookies", cfg.SecureCookies, "defaultSubject", cfg.DefaultSubject)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("run", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}

// originAllowed accepts the configured origins plus any http://localhost:PORT
// during development.
func originAllowed(allowed []string) func(string) bool {
	return func(origin string) bool {
		for _, o := range allowed {
			if origin == o {
				return true
			}
		}
		return strings.HasPrefix(origin, "http://localhost:")
	}
}

func NewRouter(cfg Config, db *gorm.DB, index *ContentIndex, store *SessionStore) *gin.Engine {
	r := gin.Default()

	allow := originAllowed(cfg.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  allow,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", publicIDHeader, "Range"},
		ExposeHeaders:    []string{publicIDHeader, "Content-Range", "Accept-Ranges"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	def := cfg.DefaultSubject

	// content reads need no user
	content := r.Group("/api/v1")
	{
		content.GET("/subjects", ListSubjects(index))
		content.GET("/manifest", GetManifest(index))

		content.GET("/quizzes", ListQuizzes(index, def))
		content.GET("/quiz/:id", GetQuiz(index, def))

		content.GET("/materials", ListMaterials(index, def))
		content.GET("/materials/:id", GetMaterial(index, def))

		content.GET("/audio-materials", ListAudio(index, def))
		content.GET("/audio-materials/:id", StreamAudio(index, def))
		content.GET("/audio-materials/:id/info", GetAudioInfo(index, def))

		content.GET("/flashcards", ListFlashcards(index, def))
		content.GET("/flashcards/:id", GetFlashcardSet(index, def))
	}

	api := r.Group("/api/v1")
	api.Use(EnsureUser(db, cfg.SecureCookies))
	{
		// Quiz sessions
		api.POST("/sessions", CreateSession(store, index, def))
		api.GET("/sessions/:id", GetSession(store))
		api.DELETE("/sessions/:id", DiscardSession(store))
		api.POST("/sessions/:id/select", SelectAnswer(store))
		api.POST("/sessions/:id/confirm", ConfirmAnswer(store))
		api.POST("/sessions/:id/next", NextQuestion(store))
		api.POST("/sessions/:id/previous", PreviousQuestion(store))
		api.POST("/sessions/:id/reset", ResetSession(store))
		api.POST("/sessions/:id/timer/start", StartTimer(store))
		api.POST("/sessions/:id/timer/stop", StopTimer(store))
		api.GET("/sessions/:id/results", SessionResultsHandler(store))
		api.GET("/sessions/:id/stream", StreamSession(store, allow))

		// User profile
		api.GET("/me", GetMe(db))
		api.PUT("/me", UpdateMe(db))
		api.GET("/me/export-key", ExportKey())
		api.POST("/me/restore", RestoreAccount(db, cfg.SecureCookies))

		// History & stats
		api.GET("/attempts", ListMyAttempts(db))
		api.GET("/attempts/:id", GetMyAttempt(db))
		api.GET("/stats", Stats(db))
	}

	return r
}
