package service

import (
	"context"
	"fmt"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"
	"gymtrack/gym-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the mongo repositories. They keep the same
// contract (sentinel errors, copy-in/copy-out) so the services under test
// cannot tell the difference.

type stubTxManager struct {
	calls int
}

func (m *stubTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// --- sessions ---

type stubSessionRepo struct {
	sessions    map[primitive.ObjectID]*domain.WorkoutSession
	createCalls int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[primitive.ObjectID]*domain.WorkoutSession)}
}

func (r *stubSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.createCalls++
	stored := *session
	stored.ID = primitive.NewObjectID()
	r.sessions[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *stubSessionRepo) GetLatestInWindow(ctx context.Context, userID primitive.ObjectID, day domain.DayOfWeek, dayStart, dayEnd time.Time) (*domain.WorkoutSession, error) {
	var latest *domain.WorkoutSession
	for _, session := range r.sessions {
		if session.UserID != userID || session.DayOfWeek != day {
			continue
		}
		if session.StartTime.Before(dayStart) || !session.StartTime.Before(dayEnd) {
			continue
		}
		if latest == nil || session.StartTime.After(latest.StartTime) {
			latest = session
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *stubSessionRepo) GetOngoingByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	for _, session := range r.sessions {
		if session.UserID == userID && session.Status == domain.SessionOngoing {
			copied := *session
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubSessionRepo) GetHistoryByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) GetCompletedByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for _, session := range r.sessions {
		if session.UserID == userID && session.Status == domain.SessionCompleted {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) Update(ctx context.Context, id primitive.ObjectID, update repository.SessionUpdate) error {
	session, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Exercises != nil {
		session.Exercises = *update.Exercises
	}
	if update.TotalTime != nil {
		session.TotalTime = *update.TotalTime
	}
	if update.TotalCaloriesBurned != nil {
		session.TotalCaloriesBurned = *update.TotalCaloriesBurned
	}
	if update.Status != nil {
		session.Status = *update.Status
	}
	if update.EndTime != nil {
		session.EndTime = update.EndTime
	}
	return nil
}

// --- training plans ---

type stubPlanRepo struct {
	plans map[primitive.ObjectID]*domain.TrainingPlan
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[primitive.ObjectID]*domain.TrainingPlan)}
}

func (r *stubPlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	stored := *plan
	stored.ID = primitive.NewObjectID()
	r.plans[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *stubPlanRepo) GetByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		if plan.CreatedBy == creatorID {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) GetAll(ctx context.Context) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		out = append(out, *plan)
	}
	return out, nil
}

func (r *stubPlanRepo) Update(ctx context.Context, id primitive.ObjectID, update repository.TrainingPlanUpdate) error {
	plan, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		plan.Name = *update.Name
	}
	if update.Description != nil {
		plan.Description = *update.Description
	}
	if update.Days != nil {
		plan.Days = *update.Days
	}
	if update.DurationWeeks != nil {
		plan.DurationWeeks = *update.DurationWeeks
	}
	if update.IsAssigned != nil {
		plan.IsAssigned = *update.IsAssigned
	}
	return nil
}

func (r *stubPlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

// --- users ---

type stubUserRepo struct {
	users map[primitive.ObjectID]*domain.User
	// failClearFor makes ClearTrainingPlan fail once for one user, to
	// exercise mid-cascade failure handling.
	failClearFor primitive.ObjectID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	stored := *user
	if stored.ID == primitive.NilObjectID {
		stored.ID = primitive.NewObjectID()
	}
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	for _, user := range r.users {
		if user.PhoneNumber == phoneNumber {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByTrainingPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.TrainingPlanID != nil && *user.TrainingPlanID == planID {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *stubUserRepo) SetTrainingPlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.TrainingPlanID = &planID
	return nil
}

func (r *stubUserRepo) ClearTrainingPlan(ctx context.Context, userID primitive.ObjectID) error {
	if r.failClearFor == userID {
		r.failClearFor = primitive.NilObjectID
		return fmt.Errorf("simulated write failure")
	}
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.TrainingPlanID = nil
	return nil
}

// --- exercise names ---

type stubExerciseNameRepo struct {
	named map[string]struct{}
}

func newStubExerciseNameRepo() *stubExerciseNameRepo {
	return &stubExerciseNameRepo{named: make(map[string]struct{})}
}

func (r *stubExerciseNameRepo) EnsureNames(ctx context.Context, names []string) error {
	for _, name := range names {
		r.named[name] = struct{}{}
	}
	return nil
}

func (r *stubExerciseNameRepo) GetAll(ctx context.Context) ([]domain.ExerciseName, error) {
	var out []domain.ExerciseName
	for name := range r.named {
		out = append(out, domain.ExerciseName{ID: primitive.NewObjectID(), Name: name})
	}
	return out, nil
}

// --- image key listers (cleanup GC roots) ---

type stubDietLogRepo struct {
	imageKeys []string
	logs      map[primitive.ObjectID]*domain.DietLog
}

func newStubDietLogRepo() *stubDietLogRepo {
	return &stubDietLogRepo{logs: make(map[primitive.ObjectID]*domain.DietLog)}
}

func (r *stubDietLogRepo) Create(ctx context.Context, log *domain.DietLog) (primitive.ObjectID, error) {
	stored := *log
	stored.ID = primitive.NewObjectID()
	if r.logs == nil {
		r.logs = make(map[primitive.ObjectID]*domain.DietLog)
	}
	r.logs[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubDietLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietLog, error) {
	log, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *log
	return &copied, nil
}

func (r *stubDietLogRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.DietLog, error) {
	var out []domain.DietLog
	for _, log := range r.logs {
		if log.UserID == userID {
			out = append(out, *log)
		}
	}
	return out, nil
}

func (r *stubDietLogRepo) GetByUserInRange(ctx context.Context, userID primitive.ObjectID, rangeStart, rangeEnd time.Time) ([]domain.DietLog, error) {
	var out []domain.DietLog
	for _, log := range r.logs {
		if log.UserID != userID {
			continue
		}
		if log.CreatedAt.Before(rangeStart) || log.CreatedAt.After(rangeEnd) {
			continue
		}
		out = append(out, *log)
	}
	return out, nil
}

func (r *stubDietLogRepo) Update(ctx context.Context, id primitive.ObjectID, update repository.DietLogUpdate) error {
	log, ok := r.logs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.MealType != nil {
		log.MealType = *update.MealType
	}
	if update.Description != nil {
		log.Description = *update.Description
	}
	if update.Calories != nil {
		log.Calories = *update.Calories
	}
	if update.ImageKey != nil {
		log.ImageKey = update.ImageKey
	}
	if update.ClearImage {
		log.ImageKey = nil
	}
	return nil
}

func (r *stubDietLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *stubDietLogRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	keys := append([]string(nil), r.imageKeys...)
	for _, log := range r.logs {
		if log.ImageKey != nil {
			keys = append(keys, *log.ImageKey)
		}
	}
	return keys, nil
}

type stubWeightLogRepo struct{}

func (r *stubWeightLogRepo) Create(ctx context.Context, log *domain.WeightLog) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (r *stubWeightLogRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightLog, error) {
	return nil, nil
}
func (r *stubWeightLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return repository.ErrNotFound
}

type stubGalleryRepo struct {
	imageKeys []string
}

func (r *stubGalleryRepo) Create(ctx context.Context, item *domain.GalleryItem) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (r *stubGalleryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GalleryItem, error) {
	return nil, repository.ErrNotFound
}
func (r *stubGalleryRepo) GetAll(ctx context.Context) ([]domain.GalleryItem, error) {
	return nil, nil
}
func (r *stubGalleryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return repository.ErrNotFound
}
func (r *stubGalleryRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	return r.imageKeys, nil
}

type stubSuccessStoryRepo struct {
	imageKeys []string
}

func (r *stubSuccessStoryRepo) Create(ctx context.Context, story *domain.SuccessStory) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (r *stubSuccessStoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SuccessStory, error) {
	return nil, repository.ErrNotFound
}
func (r *stubSuccessStoryRepo) GetAll(ctx context.Context) ([]domain.SuccessStory, error) {
	return nil, nil
}
func (r *stubSuccessStoryRepo) Update(ctx context.Context, id primitive.ObjectID, update repository.SuccessStoryUpdate) error {
	return repository.ErrNotFound
}
func (r *stubSuccessStoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return repository.ErrNotFound
}
func (r *stubSuccessStoryRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	return r.imageKeys, nil
}

type stubTransformationImageRepo struct {
	imageKeys []string
}

func (r *stubTransformationImageRepo) Create(ctx context.Context, image *domain.TransformationImage) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (r *stubTransformationImageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TransformationImage, error) {
	return nil, repository.ErrNotFound
}
func (r *stubTransformationImageRepo) GetAll(ctx context.Context) ([]domain.TransformationImage, error) {
	return nil, nil
}
func (r *stubTransformationImageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return repository.ErrNotFound
}
func (r *stubTransformationImageRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	return r.imageKeys, nil
}

// --- file storage ---

type stubFileStorage struct {
	objects  map[string]storage.StorageObject
	deleted  []string
	failKeys map[string]bool
}

func newStubFileStorage(objects ...storage.StorageObject) *stubFileStorage {
	s := &stubFileStorage{
		objects:  make(map[string]storage.StorageObject),
		failKeys: make(map[string]bool),
	}
	for _, obj := range objects {
		s.objects[obj.Key] = obj
	}
	return s
}

func (s *stubFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *stubFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *stubFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if s.failKeys[objectKey] {
		return fmt.Errorf("simulated storage failure")
	}
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *stubFileStorage) ListObjects(ctx context.Context) ([]storage.StorageObject, error) {
	out := make([]storage.StorageObject, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj)
	}
	return out, nil
}
