package repository

import (
	"context"
	"time"

	"gymtrack/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxManager runs a function inside one storage transaction. Read-then-write
// sequences (the day-window dedup check) keep their atomicity through this,
// not through an application-level lock.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
	GetByTrainingPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.User, error)
	SetTrainingPlan(ctx context.Context, userID, planID primitive.ObjectID) error
	ClearTrainingPlan(ctx context.Context, userID primitive.ObjectID) error
}

// TrainingPlanUpdate carries the updatable fields of a training plan.
// Nil fields are left untouched.
type TrainingPlanUpdate struct {
	Name          *string
	Description   *string
	Days          *[]domain.DayPlan
	DurationWeeks *int
	IsAssigned    *bool
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetAll(ctx context.Context) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, id primitive.ObjectID, update TrainingPlanUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionUpdate carries the updatable fields of a workout session.
// Nil fields are left untouched.
type SessionUpdate struct {
	Exercises           *[]domain.ExerciseProgress
	TotalTime           *float64
	TotalCaloriesBurned *float64
	Status              *domain.SessionStatus
	EndTime             *time.Time
}

// WorkoutSessionRepository defines the interface for interacting with workout session data.
type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// GetLatestInWindow returns the most recent session for (userID, day)
	// whose startTime falls in the half-open window [dayStart, dayEnd),
	// or ErrNotFound.
	GetLatestInWindow(ctx context.Context, userID primitive.ObjectID, day domain.DayOfWeek, dayStart, dayEnd time.Time) (*domain.WorkoutSession, error)
	GetOngoingByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetHistoryByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutSession, error)
	GetCompletedByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, id primitive.ObjectID, update SessionUpdate) error
}

// DietLogUpdate carries the updatable fields of a diet log entry.
type DietLogUpdate struct {
	MealType    *domain.MealType
	Description *string
	Calories    *float64
	ImageKey    *string
	ClearImage  bool
}

// DietLogRepository defines the interface for interacting with diet log data.
type DietLogRepository interface {
	Create(ctx context.Context, log *domain.DietLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietLog, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.DietLog, error)
	// GetByUserInRange uses inclusive bounds on createdAt at both ends,
	// matching the client's current/previous window comparison.
	GetByUserInRange(ctx context.Context, userID primitive.ObjectID, rangeStart, rangeEnd time.Time) ([]domain.DietLog, error)
	Update(ctx context.Context, id primitive.ObjectID, update DietLogUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListImageKeys(ctx context.Context) ([]string, error)
}

// WeightLogRepository defines the interface for interacting with weight log data.
type WeightLogRepository interface {
	Create(ctx context.Context, log *domain.WeightLog) (primitive.ObjectID, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GalleryRepository defines the interface for interacting with gallery items.
type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GalleryItem, error)
	GetAll(ctx context.Context) ([]domain.GalleryItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListImageKeys(ctx context.Context) ([]string, error)
}

// SuccessStoryUpdate carries the updatable fields of a success story.
type SuccessStoryUpdate struct {
	ClientName      *string
	Story           *string
	ImageURL        *string
	ImageStorageKey *string
}

// SuccessStoryRepository defines the interface for interacting with success stories.
type SuccessStoryRepository interface {
	Create(ctx context.Context, story *domain.SuccessStory) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SuccessStory, error)
	GetAll(ctx context.Context) ([]domain.SuccessStory, error)
	Update(ctx context.Context, id primitive.ObjectID, update SuccessStoryUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListImageKeys(ctx context.Context) ([]string, error)
}

// TransformationImageRepository defines the interface for interacting with transformation images.
type TransformationImageRepository interface {
	Create(ctx context.Context, image *domain.TransformationImage) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TransformationImage, error)
	GetAll(ctx context.Context) ([]domain.TransformationImage, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListImageKeys(ctx context.Context) ([]string, error)
}

// ExerciseNameRepository maintains the master list of known exercise names.
type ExerciseNameRepository interface {
	EnsureNames(ctx context.Context, names []string) error
	GetAll(ctx context.Context) ([]domain.ExerciseName, error)
}
