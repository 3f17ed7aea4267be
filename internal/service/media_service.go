package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"
	"gymtrack/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back when attaching
}

// GalleryItemDetails combines a gallery item with a resolved download URL.
type GalleryItemDetails struct {
	domain.GalleryItem
	ResolvedImageURL string `json:"resolvedImageUrl,omitempty"`
}

// SuccessStoryDetails combines a success story with a resolved download URL.
type SuccessStoryDetails struct {
	domain.SuccessStory
	ResolvedImageURL string `json:"resolvedImageUrl,omitempty"`
}

// TransformationImageDetails combines a transformation image with a resolved download URL.
type TransformationImageDetails struct {
	domain.TransformationImage
	ResolvedImageURL string `json:"resolvedImageUrl,omitempty"`
}

// --- Service Interface ---
type MediaService interface {
	// RequestImageUploadURL generates a presigned PUT URL for a fresh object
	// key. The blob stays unreferenced until the key is attached to a
	// record; until then only the GC retention window protects it.
	RequestImageUploadURL(ctx context.Context, contentType string) (*UploadURLResponse, error)

	// Diet logs
	CreateDietLog(ctx context.Context, dietLog *domain.DietLog) (primitive.ObjectID, error)
	GetDietLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.DietLog, error)
	GetDietLogsInRange(ctx context.Context, userID primitive.ObjectID, rangeStart, rangeEnd time.Time) ([]domain.DietLog, error)
	UpdateDietLog(ctx context.Context, id primitive.ObjectID, update repository.DietLogUpdate) error
	DeleteDietLog(ctx context.Context, id primitive.ObjectID) error

	// Weight logs
	AddWeightLog(ctx context.Context, weightLog *domain.WeightLog) (primitive.ObjectID, error)
	GetWeightLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightLog, error)
	DeleteWeightLog(ctx context.Context, id primitive.ObjectID) error

	// Gallery
	CreateGalleryItem(ctx context.Context, item *domain.GalleryItem) (primitive.ObjectID, error)
	ListGallery(ctx context.Context) ([]GalleryItemDetails, error)
	DeleteGalleryItem(ctx context.Context, id primitive.ObjectID) error

	// Success stories
	CreateSuccessStory(ctx context.Context, story *domain.SuccessStory) (primitive.ObjectID, error)
	ListSuccessStories(ctx context.Context) ([]SuccessStoryDetails, error)
	UpdateSuccessStory(ctx context.Context, id primitive.ObjectID, update repository.SuccessStoryUpdate) error
	DeleteSuccessStory(ctx context.Context, id primitive.ObjectID) error

	// Transformation images
	CreateTransformationImage(ctx context.Context, image *domain.TransformationImage) (primitive.ObjectID, error)
	ListTransformationImages(ctx context.Context) ([]TransformationImageDetails, error)
	DeleteTransformationImage(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

type mediaService struct {
	dietLogRepo        repository.DietLogRepository
	weightLogRepo      repository.WeightLogRepository
	galleryRepo        repository.GalleryRepository
	storyRepo          repository.SuccessStoryRepository
	transformationRepo repository.TransformationImageRepository
	fileStorage        storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(
	dietLogRepo repository.DietLogRepository,
	weightLogRepo repository.WeightLogRepository,
	galleryRepo repository.GalleryRepository,
	storyRepo repository.SuccessStoryRepository,
	transformationRepo repository.TransformationImageRepository,
	fileStorage storage.FileStorage,
) MediaService {
	return &mediaService{
		dietLogRepo:        dietLogRepo,
		weightLogRepo:      weightLogRepo,
		galleryRepo:        galleryRepo,
		storyRepo:          storyRepo,
		transformationRepo: transformationRepo,
		fileStorage:        fileStorage,
	}
}

// RequestImageUploadURL generates a presigned PUT URL under a unique key.
func (s *mediaService) RequestImageUploadURL(ctx context.Context, contentType string) (*UploadURLResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("images", fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// === Diet Logs ===

func (s *mediaService) CreateDietLog(ctx context.Context, dietLog *domain.DietLog) (primitive.ObjectID, error) {
	return s.dietLogRepo.Create(ctx, dietLog)
}

func (s *mediaService) GetDietLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.DietLog, error) {
	return s.dietLogRepo.GetByUser(ctx, userID)
}

func (s *mediaService) GetDietLogsInRange(ctx context.Context, userID primitive.ObjectID, rangeStart, rangeEnd time.Time) ([]domain.DietLog, error) {
	return s.dietLogRepo.GetByUserInRange(ctx, userID, rangeStart, rangeEnd)
}

// UpdateDietLog applies the update; if the image is replaced or cleared, the
// previously attached blob is deleted, best effort.
func (s *mediaService) UpdateDietLog(ctx context.Context, id primitive.ObjectID, update repository.DietLogUpdate) error {
	existing, err := s.dietLogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	replacing := update.ImageKey != nil || update.ClearImage
	if err := s.dietLogRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if replacing && existing.ImageKey != nil {
		s.deleteBlob(ctx, *existing.ImageKey)
	}
	return nil
}

func (s *mediaService) DeleteDietLog(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.dietLogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if err := s.dietLogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if existing.ImageKey != nil {
		s.deleteBlob(ctx, *existing.ImageKey)
	}
	return nil
}

// === Weight Logs ===

func (s *mediaService) AddWeightLog(ctx context.Context, weightLog *domain.WeightLog) (primitive.ObjectID, error) {
	return s.weightLogRepo.Create(ctx, weightLog)
}

func (s *mediaService) GetWeightLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightLog, error) {
	return s.weightLogRepo.GetByUser(ctx, userID)
}

func (s *mediaService) DeleteWeightLog(ctx context.Context, id primitive.ObjectID) error {
	err := s.weightLogRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// === Gallery ===

func (s *mediaService) CreateGalleryItem(ctx context.Context, item *domain.GalleryItem) (primitive.ObjectID, error) {
	return s.galleryRepo.Create(ctx, item)
}

func (s *mediaService) ListGallery(ctx context.Context) ([]GalleryItemDetails, error) {
	items, err := s.galleryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]GalleryItemDetails, 0, len(items))
	for _, item := range items {
		detail := GalleryItemDetails{GalleryItem: item, ResolvedImageURL: item.ImageURL}
		if detail.ResolvedImageURL == "" && item.StorageKey != nil {
			detail.ResolvedImageURL = s.resolveDownloadURL(ctx, *item.StorageKey)
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *mediaService) DeleteGalleryItem(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if err := s.galleryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if existing.StorageKey != nil {
		s.deleteBlob(ctx, *existing.StorageKey)
	}
	return nil
}

// === Success Stories ===

func (s *mediaService) CreateSuccessStory(ctx context.Context, story *domain.SuccessStory) (primitive.ObjectID, error) {
	return s.storyRepo.Create(ctx, story)
}

func (s *mediaService) ListSuccessStories(ctx context.Context) ([]SuccessStoryDetails, error) {
	stories, err := s.storyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]SuccessStoryDetails, 0, len(stories))
	for _, story := range stories {
		detail := SuccessStoryDetails{SuccessStory: story, ResolvedImageURL: story.ImageURL}
		if detail.ResolvedImageURL == "" && story.ImageStorageKey != nil {
			detail.ResolvedImageURL = s.resolveDownloadURL(ctx, *story.ImageStorageKey)
		}
		details = append(details, detail)
	}
	return details, nil
}

// UpdateSuccessStory applies the update; a replaced image blob is deleted,
// best effort.
func (s *mediaService) UpdateSuccessStory(ctx context.Context, id primitive.ObjectID, update repository.SuccessStoryUpdate) error {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if err := s.storyRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if update.ImageStorageKey != nil && existing.ImageStorageKey != nil && *existing.ImageStorageKey != *update.ImageStorageKey {
		s.deleteBlob(ctx, *existing.ImageStorageKey)
	}
	return nil
}

func (s *mediaService) DeleteSuccessStory(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if err := s.storyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if existing.ImageStorageKey != nil {
		s.deleteBlob(ctx, *existing.ImageStorageKey)
	}
	return nil
}

// === Transformation Images ===

func (s *mediaService) CreateTransformationImage(ctx context.Context, image *domain.TransformationImage) (primitive.ObjectID, error) {
	return s.transformationRepo.Create(ctx, image)
}

func (s *mediaService) ListTransformationImages(ctx context.Context) ([]TransformationImageDetails, error) {
	images, err := s.transformationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]TransformationImageDetails, 0, len(images))
	for _, image := range images {
		detail := TransformationImageDetails{TransformationImage: image}
		if image.ImageStorageKey != nil {
			detail.ResolvedImageURL = s.resolveDownloadURL(ctx, *image.ImageStorageKey)
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *mediaService) DeleteTransformationImage(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.transformationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if err := s.transformationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if existing.ImageStorageKey != nil {
		s.deleteBlob(ctx, *existing.ImageStorageKey)
	}
	return nil
}

// deleteBlob removes a blob, best effort. A failure leaves an orphan for the
// storage collector to reclaim later.
func (s *mediaService) deleteBlob(ctx context.Context, objectKey string) {
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		log.Printf("WARN: Failed to delete blob '%s', leaving it for the storage collector: %v", objectKey, err)
	}
}

func (s *mediaService) resolveDownloadURL(ctx context.Context, objectKey string) string {
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("WARN: Failed to generate download URL for '%s': %v", objectKey, err)
		return ""
	}
	return url
}
