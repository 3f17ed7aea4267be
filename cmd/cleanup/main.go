package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gymtrack/gym-app/internal/config"
	"gymtrack/gym-app/internal/repository/mongo"
	"gymtrack/gym-app/internal/service"
	"gymtrack/gym-app/internal/storage"

	"github.com/jonboulle/clockwork"
)

// One-shot orphaned blob sweep, intended for a cron schedule. The same
// sweep is reachable through the admin API; this binary exists so the
// schedule does not depend on the server being up.
func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	retention := flag.Duration("retention", 0, "override the configured orphan retention window")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	log.Println("Starting storage cleanup run...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if *retention > 0 {
		cfg.GC.Retention = *retention
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	cleanupService := service.NewCleanupService(
		mongo.NewMongoDietLogRepository(appDB),
		mongo.NewMongoGalleryRepository(appDB),
		mongo.NewMongoSuccessStoryRepository(appDB),
		mongo.NewMongoTransformationImageRepository(appDB),
		fileStorage,
		cfg.GC.Retention,
		clockwork.NewRealClock(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := cleanupService.DeleteOrphanedImages(ctx)
	if err != nil {
		log.Fatalf("FATAL: Storage cleanup failed: %v", err)
	}

	log.Printf("Cleanup complete: %d deleted, %d skipped (recent), %d failed, %d referenced, %d blobs total",
		result.DeletedCount, result.SkippedRecentCount, result.FailedCount, result.ReferencedCount, result.TotalStorageFiles)
}
