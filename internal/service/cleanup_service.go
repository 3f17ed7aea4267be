package service

import (
	"context"
	"log"
	"sync"
	"time"

	"gymtrack/gym-app/internal/repository"
	"gymtrack/gym-app/internal/storage"

	"github.com/jonboulle/clockwork"
)

// DefaultOrphanRetention is the grace period protecting blobs that were
// uploaded but not yet attached to any record.
const DefaultOrphanRetention = 24 * time.Hour

// CleanupResult summarises one orphaned-image sweep.
type CleanupResult struct {
	DeletedCount       int `json:"deletedCount"`
	SkippedRecentCount int `json:"skippedRecentCount"`
	FailedCount        int `json:"failedCount"`
	ReferencedCount    int `json:"referencedCount"`
	TotalStorageFiles  int `json:"totalStorageFiles"`
}

// --- Service Interface ---
type CleanupService interface {
	// DeleteOrphanedImages removes blobs that no record references and that
	// are older than the retention window. Per-blob delete failures are
	// counted, not raised; the sweep always runs to the end. The sweep is
	// idempotent: a re-run simply no longer sees already-deleted blobs.
	DeleteOrphanedImages(ctx context.Context) (*CleanupResult, error)
}

// --- Service Implementation ---

type cleanupService struct {
	dietLogRepo        repository.DietLogRepository
	galleryRepo        repository.GalleryRepository
	storyRepo          repository.SuccessStoryRepository
	transformationRepo repository.TransformationImageRepository
	fileStorage        storage.FileStorage
	retention          time.Duration
	clock              clockwork.Clock
}

// NewCleanupService creates a new instance of cleanupService. A retention of
// zero falls back to DefaultOrphanRetention.
func NewCleanupService(
	dietLogRepo repository.DietLogRepository,
	galleryRepo repository.GalleryRepository,
	storyRepo repository.SuccessStoryRepository,
	transformationRepo repository.TransformationImageRepository,
	fileStorage storage.FileStorage,
	retention time.Duration,
	clock clockwork.Clock,
) CleanupService {
	if retention <= 0 {
		retention = DefaultOrphanRetention
	}
	return &cleanupService{
		dietLogRepo:        dietLogRepo,
		galleryRepo:        galleryRepo,
		storyRepo:          storyRepo,
		transformationRepo: transformationRepo,
		fileStorage:        fileStorage,
		retention:          retention,
		clock:              clock,
	}
}

// DeleteOrphanedImages is a mark-and-sweep: the mark phase fetches the
// reference keys of all four collections and the blob listing concurrently;
// the sweep walks the blobs sequentially. The retention window substitutes
// for a write barrier: a blob uploaded mid-sweep is always younger than the
// window and therefore always skipped.
func (s *cleanupService) DeleteOrphanedImages(ctx context.Context) (*CleanupResult, error) {
	now := s.clock.Now()

	var (
		dietKeys, galleryKeys, storyKeys, transformationKeys []string
		blobs                                                []storage.StorageObject
		errs                                                 [5]error
		wg                                                   sync.WaitGroup
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		dietKeys, errs[0] = s.dietLogRepo.ListImageKeys(ctx)
	}()
	go func() {
		defer wg.Done()
		galleryKeys, errs[1] = s.galleryRepo.ListImageKeys(ctx)
	}()
	go func() {
		defer wg.Done()
		storyKeys, errs[2] = s.storyRepo.ListImageKeys(ctx)
	}()
	go func() {
		defer wg.Done()
		transformationKeys, errs[3] = s.transformationRepo.ListImageKeys(ctx)
	}()
	go func() {
		defer wg.Done()
		blobs, errs[4] = s.fileStorage.ListObjects(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	referenced := make(map[string]struct{})
	for _, keys := range [][]string{dietKeys, galleryKeys, storyKeys, transformationKeys} {
		for _, key := range keys {
			referenced[key] = struct{}{}
		}
	}

	result := &CleanupResult{
		ReferencedCount:   len(referenced),
		TotalStorageFiles: len(blobs),
	}

	for _, blob := range blobs {
		if _, ok := referenced[blob.Key]; ok {
			continue
		}

		if now.Sub(blob.CreationTime) < s.retention {
			result.SkippedRecentCount++
			continue
		}

		if err := s.fileStorage.DeleteObject(ctx, blob.Key); err != nil {
			result.FailedCount++
			log.Printf("WARN: Failed to delete orphaned storage file '%s': %v", blob.Key, err)
			continue
		}
		result.DeletedCount++
	}

	return result, nil
}
