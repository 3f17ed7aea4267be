package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymtrack/gym-app/internal/api"
	"gymtrack/gym-app/internal/config"
	"gymtrack/gym-app/internal/repository/mongo"
	"gymtrack/gym-app/internal/service"
	"gymtrack/gym-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	log.Println("Starting Gym App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureTrainingPlanIndexes(ctx, appDB.Collection("training_plans"))
		mongo.EnsureWorkoutSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		mongo.EnsureDietLogIndexes(ctx, appDB.Collection("diet_logs"))
		mongo.EnsureWeightLogIndexes(ctx, appDB.Collection("weight_logs"))
		mongo.EnsureExerciseNameIndexes(ctx, appDB.Collection("exercise_names"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	sessionRepo := mongo.NewMongoWorkoutSessionRepository(appDB)
	dietLogRepo := mongo.NewMongoDietLogRepository(appDB)
	weightLogRepo := mongo.NewMongoWeightLogRepository(appDB)
	galleryRepo := mongo.NewMongoGalleryRepository(appDB)
	storyRepo := mongo.NewMongoSuccessStoryRepository(appDB)
	transformationRepo := mongo.NewMongoTransformationImageRepository(appDB)
	exerciseNameRepo := mongo.NewMongoExerciseNameRepository(appDB)
	txManager := mongo.NewMongoTxManager(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	clock := clockwork.NewRealClock()
	sessionService := service.NewSessionService(sessionRepo, planRepo, txManager, clock)
	planService := service.NewPlanService(planRepo, userRepo, exerciseNameRepo, txManager)
	mediaService := service.NewMediaService(dietLogRepo, weightLogRepo, galleryRepo, storyRepo, transformationRepo, fileStorage)
	cleanupService := service.NewCleanupService(dietLogRepo, galleryRepo, storyRepo, transformationRepo, fileStorage, cfg.GC.Retention, clock)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, sessionService, planService, mediaService, cleanupService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
