package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/aiclient"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/auth"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/config"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/database"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/handlers"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/middleware"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/quiz"
)

var Version = "dev"

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	ai := aiclient.New(cfg.AIBackendURL)
	quizRegistry := quiz.NewRegistry()

	// Initialize Gin
	r := gin.Default()
	r.Use(middleware.WithDB(pool))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := database.Health(c.Request.Context(), pool); err != nil {
			status = "degraded"
		}
		c.JSON(200, gin.H{
			"status":  status,
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "smartstudy-go",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "SmartStudy API",
			"version": Version,
		})
	})

	// Public auth routes
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", handlers.Register(jwtService))
		authRoutes.POST("/login", handlers.Login(jwtService))
	}

	// Everything else requires a bearer token
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/auth/me", handlers.Me())

		api.GET("/ai/health", handlers.AIHealth(ai))
		api.GET("/study-tips/:subject", handlers.StudyTips(ai))

		api.POST("/timetable/generate", handlers.GenerateTimetable(ai))
		api.GET("/timetable", handlers.GetTimetable())
		api.GET("/timetable/progress", handlers.GetProgress())
		api.POST("/timetable/sessions/:sessionID/toggle", handlers.ToggleSession())
		api.PUT("/timetable/sessions/:sessionID/notes", handlers.SetSessionNotes())
		api.POST("/timetable/reschedule", handlers.Reschedule(ai))

		api.POST("/documents/upload", handlers.UploadNotes(ai))
		api.GET("/documents", handlers.ListDocuments())
		api.POST("/documents/analyze-papers", handlers.AnalyzePapers(ai))

		api.POST("/quiz/sessions", handlers.CreateQuizSession(quizRegistry))
		api.GET("/quiz/sessions/:id", handlers.GetQuizSession(quizRegistry))
		api.POST("/quiz/sessions/:id/upload", handlers.UploadQuizNotes(ai, quizRegistry))
		api.POST("/quiz/sessions/:id/configure", handlers.ConfigureQuiz(ai, quizRegistry))
		api.POST("/quiz/sessions/:id/back", handlers.QuizSessionBack(quizRegistry))
		api.PUT("/quiz/sessions/:id/answers", handlers.SetQuizAnswers(quizRegistry))
		api.POST("/quiz/sessions/:id/submit", handlers.SubmitQuiz(ai, quizRegistry))
		api.GET("/quiz/results", handlers.ListQuizResults())
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
