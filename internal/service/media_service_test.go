package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func newTestMediaService() (MediaService, *stubDietLogRepo, *stubFileStorage) {
	dietLogRepo := newStubDietLogRepo()
	fileStorage := newStubFileStorage()
	svc := NewMediaService(
		dietLogRepo,
		&stubWeightLogRepo{},
		&stubGalleryRepo{},
		&stubSuccessStoryRepo{},
		&stubTransformationImageRepo{},
		fileStorage,
	)
	return svc, dietLogRepo, fileStorage
}

func TestRequestImageUploadURL(t *testing.T) {
	svc, _, _ := newTestMediaService()

	resp, err := svc.RequestImageUploadURL(context.Background(), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ObjectKey, "images/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".png"))
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)

	// Two requests never collide on the object key.
	second, err := svc.RequestImageUploadURL(context.Background(), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, resp.ObjectKey, second.ObjectKey)
}

func TestRequestImageUploadURLRejectsNonImages(t *testing.T) {
	svc, _, _ := newTestMediaService()

	for _, contentType := range []string{"", "application/pdf", "text/plain"} {
		_, err := svc.RequestImageUploadURL(context.Background(), contentType)
		assert.ErrorIs(t, err, ErrInvalidContentType, "contentType %q", contentType)
	}
}

func TestUpdateDietLogDeletesReplacedBlob(t *testing.T) {
	svc, dietLogRepo, fileStorage := newTestMediaService()

	id, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
		UserID:   primitive.NewObjectID(),
		MealType: domain.MealLunch,
		ImageKey: strPtr("images/old.jpg"),
	})
	require.NoError(t, err)

	err = svc.UpdateDietLog(context.Background(), id, repository.DietLogUpdate{
		ImageKey: strPtr("images/new.jpg"),
	})
	require.NoError(t, err)

	log, err := dietLogRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "images/new.jpg", *log.ImageKey)
	assert.Equal(t, []string{"images/old.jpg"}, fileStorage.deleted)
}

func TestUpdateDietLogClearImage(t *testing.T) {
	svc, dietLogRepo, fileStorage := newTestMediaService()

	id, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
		UserID:   primitive.NewObjectID(),
		MealType: domain.MealDinner,
		ImageKey: strPtr("images/old.jpg"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDietLog(context.Background(), id, repository.DietLogUpdate{ClearImage: true}))

	log, err := dietLogRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, log.ImageKey)
	assert.Equal(t, []string{"images/old.jpg"}, fileStorage.deleted)
}

func TestUpdateDietLogWithoutImageChangeKeepsBlob(t *testing.T) {
	svc, dietLogRepo, fileStorage := newTestMediaService()

	id, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
		UserID:   primitive.NewObjectID(),
		MealType: domain.MealSnack,
		ImageKey: strPtr("images/keep.jpg"),
	})
	require.NoError(t, err)

	newCalories := 420.0
	require.NoError(t, svc.UpdateDietLog(context.Background(), id, repository.DietLogUpdate{Calories: &newCalories}))
	assert.Empty(t, fileStorage.deleted)
}

func TestDeleteDietLogDeletesAttachedBlob(t *testing.T) {
	svc, dietLogRepo, fileStorage := newTestMediaService()

	id, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
		UserID:   primitive.NewObjectID(),
		MealType: domain.MealBreakfast,
		ImageKey: strPtr("images/gone.jpg"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDietLog(context.Background(), id))

	_, err = dietLogRepo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, []string{"images/gone.jpg"}, fileStorage.deleted)
}

func TestDeleteDietLogSurvivesBlobDeleteFailure(t *testing.T) {
	svc, dietLogRepo, fileStorage := newTestMediaService()
	fileStorage.failKeys["images/stuck.jpg"] = true

	id, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
		UserID:   primitive.NewObjectID(),
		MealType: domain.MealLunch,
		ImageKey: strPtr("images/stuck.jpg"),
	})
	require.NoError(t, err)

	// The record delete wins; the orphaned blob is the collector's problem.
	require.NoError(t, svc.DeleteDietLog(context.Background(), id))
	_, err = dietLogRepo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetDietLogsInRangeIsInclusive(t *testing.T) {
	svc, dietLogRepo, _ := newTestMediaService()

	userID := primitive.NewObjectID()
	rangeStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.Add(24 * time.Hour)

	for _, createdAt := range []time.Time{
		rangeStart.Add(-time.Second), // before
		rangeStart,                   // on the lower bound
		rangeStart.Add(time.Hour),    // inside
		rangeEnd,                     // on the upper bound
		rangeEnd.Add(time.Second),    // after
	} {
		_, err := dietLogRepo.Create(context.Background(), &domain.DietLog{
			UserID:    userID,
			MealType:  domain.MealLunch,
			CreatedAt: createdAt,
		})
		require.NoError(t, err)
	}

	logs, err := svc.GetDietLogsInRange(context.Background(), userID, rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestUpdateDietLogUnknownRecord(t *testing.T) {
	svc, _, _ := newTestMediaService()

	err := svc.UpdateDietLog(context.Background(), primitive.NewObjectID(), repository.DietLogUpdate{})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, svc.DeleteDietLog(context.Background(), primitive.NewObjectID()), ErrRecordNotFound)
}
