package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intervia-backend/internal/config"
	"intervia-backend/internal/database"
	"intervia-backend/internal/handlers"
	"intervia-backend/internal/interview"
	"intervia-backend/internal/middleware"
	"intervia-backend/internal/models"
	"intervia-backend/internal/repository"
	"intervia-backend/internal/router"
	"intervia-backend/internal/services"
	"intervia-backend/internal/websocket"
	"intervia-backend/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	log.Println("🚀 Starting Intervia Backend...")

	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}
	log.Println("✓ Configuration loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	migrations, _ := fs.Sub(migrationsFS, "migrations")
	if err := database.RunMigrations(pool, migrations); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	candidateRepo := repository.NewCandidateRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs, redisClients.Queue)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	fallbackService, err := services.NewFallbackService()
	if err != nil {
		log.Fatalf("✗ Fallback question banks failed to load: %v", err)
	}
	log.Println("✓ Fallback question banks loaded")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	fileExtractService := services.NewFileExtractService()
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth)

	policy := interview.ScoringPolicy{
		FullThreshold:    cfg.ScoreFullThreshold,
		HalfThreshold:    cfg.ScoreHalfThreshold,
		QuarterThreshold: cfg.ScoreQuarterThreshold,
		Weights: map[string]int{
			models.QuestionDifficultyEasy:   cfg.WeightEasy,
			models.QuestionDifficultyMedium: cfg.WeightMedium,
			models.QuestionDifficultyHard:   cfg.WeightHard,
		},
	}

	// ──── Step 6: Start Session Manager Clock ────
	// workerPool is assigned below; the clock only starts after that.
	var workerPool *worker.Pool
	manager := interview.NewManager(cfg.TickInterval, func(session *interview.Session, ev interview.TickEvent) {
		ctx := context.Background()

		geminiService.PublishUpdate(ctx, ev.UserID, models.WSMessage{
			Type:    "timer_expired",
			Payload: models.TimerExpiredEvent{SessionID: ev.SessionID, TimerID: ev.TimerID},
		})

		if ev.SessionEnded {
			record := session.Record()
			if err := sessionRepo.UpdateStatus(ctx, &record); err != nil {
				log.Printf("Failed to persist expired session %s: %v", ev.SessionID, err)
			}
			geminiService.PublishUpdate(ctx, ev.UserID, models.WSMessage{
				Type:    "session_completed",
				Payload: models.SessionCompletedEvent{SessionID: ev.SessionID, FinalScore: ev.FinalScore},
			})
			configBytes, _ := json.Marshal(map[string]interface{}{"session_id": ev.SessionID})
			workerPool.Enqueue(ctx, &models.Job{
				UserID:      ev.UserID,
				Type:        models.JobTypeSummaryGeneration,
				ReferenceID: ev.SessionID,
				ConfigJSON:  configBytes,
			})
			return
		}

		if ev.NeedsQuestion {
			configBytes, _ := json.Marshal(map[string]interface{}{
				"session_id":      ev.SessionID,
				"question_number": ev.NextNumber,
			})
			workerPool.Enqueue(ctx, &models.Job{
				UserID:      ev.UserID,
				Type:        models.JobTypeQuestionGeneration,
				ReferenceID: ev.SessionID,
				ConfigJSON:  configBytes,
			})
		}
	})

	// ──── Step 7: Start Job Worker Pool ────
	workerPool = worker.NewPool(
		redisClients.Queue,
		geminiService,
		fallbackService,
		manager,
		jobRepo,
		sessionRepo,
		candidateRepo,
		5,
	)
	workerPool.Start()
	log.Println("✓ Worker pool started (5 goroutines)")

	manager.Start()
	log.Println("✓ Session clock started")

	// ──── Step 8: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	interviewHandler := handlers.NewInterviewHandler(manager, sessionRepo, candidateRepo, workerPool, policy)
	resumeHandler := handlers.NewResumeHandler(candidateRepo, fileExtractService, workerPool, cfg.MaxUploadBytes)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 9: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		interviewHandler,
		resumeHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		manager.Stop()
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Intervia Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
