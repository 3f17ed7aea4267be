package service

import (
	"context"
	"errors"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound   = errors.New("workout session not found")
	ErrSessionFinished   = errors.New("workout session is already completed or cancelled")
	ErrNoExercisesForDay = errors.New("no exercises resolved for this day")
)

// StartSessionInput carries the arguments for starting a workout session.
// DayStart/DayEnd form the caller-supplied half-open day window
// [DayStart, DayEnd); they are trusted as-is and not re-derived from the
// wall clock. Exercises is used only when TrainingPlanID is nil.
type StartSessionInput struct {
	UserID         primitive.ObjectID
	TrainingPlanID *primitive.ObjectID
	DayOfWeek      domain.DayOfWeek
	DayStart       time.Time
	DayEnd         time.Time
	Exercises      []domain.ExerciseProgress
}

// --- Service Interface ---
type SessionService interface {
	// StartSession is idempotent per (user, day window, weekday): if a
	// session already exists in the window its id is returned unchanged,
	// even if the supplied exercises differ.
	StartSession(ctx context.Context, input StartSessionInput) (primitive.ObjectID, error)

	// AddSelfManagedExerciseToToday appends one exercise to today's session,
	// creating the session if the day window holds none yet.
	AddSelfManagedExerciseToToday(ctx context.Context, userID primitive.ObjectID, day domain.DayOfWeek, dayStart, dayEnd time.Time, exerciseName string, sets []domain.TemplateSet) (primitive.ObjectID, error)

	UpdateSessionProgress(ctx context.Context, sessionID primitive.ObjectID, exercises []domain.ExerciseProgress, totalTime, totalCaloriesBurned float64) error
	CompleteSession(ctx context.Context, sessionID primitive.ObjectID, totalTime, totalCaloriesBurned float64) error
	CancelSession(ctx context.Context, sessionID primitive.ObjectID) error

	// GetOngoingSession returns the user's current ongoing session, or nil
	// if there is none.
	GetOngoingSession(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)

	// GetLatestSessionForDay returns the most recent session in the day
	// window, or nil. When day is empty it is derived from dayStart; an
	// explicitly supplied day is used as-is, even if inconsistent with the
	// timestamps.
	GetLatestSessionForDay(ctx context.Context, userID primitive.ObjectID, dayStart, dayEnd time.Time, day domain.DayOfWeek) (*domain.WorkoutSession, error)

	GetSessionHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutSession, error)
	GetSessionStats(ctx context.Context, userID primitive.ObjectID) (*domain.SessionStats, error)
}

// --- Service Implementation ---

type sessionService struct {
	sessionRepo repository.WorkoutSessionRepository
	planRepo    repository.TrainingPlanRepository
	tx          repository.TxManager
	clock       clockwork.Clock
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.WorkoutSessionRepository,
	planRepo repository.TrainingPlanRepository,
	tx repository.TxManager,
	clock clockwork.Clock,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		planRepo:    planRepo,
		tx:          tx,
		clock:       clock,
	}
}

// StartSession starts (or finds) the session for the given day window.
// The dedup check and the insert run inside a single transaction; a true
// concurrent race is resolved by the store's transaction ordering, not by an
// application lock.
func (s *sessionService) StartSession(ctx context.Context, input StartSessionInput) (primitive.ObjectID, error) {
	if input.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("user ID is required")
	}
	if !input.DayOfWeek.IsValid() {
		return primitive.NilObjectID, errors.New("day of week is required")
	}

	var sessionID primitive.ObjectID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.sessionRepo.GetLatestInWindow(ctx, input.UserID, input.DayOfWeek, input.DayStart, input.DayEnd)
		if err == nil {
			// Idempotent: return the existing session untouched, even if
			// the supplied exercises differ from the first call.
			sessionID = existing.ID
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		exercises := input.Exercises
		if input.TrainingPlanID != nil {
			plan, err := s.planRepo.GetByID(ctx, *input.TrainingPlanID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrPlanNotFound
				}
				return err
			}
			exercises = MaterializeDay(plan, input.DayOfWeek)
		}
		if len(exercises) == 0 {
			return ErrNoExercisesForDay
		}

		session := &domain.WorkoutSession{
			UserID:         input.UserID,
			TrainingPlanID: input.TrainingPlanID,
			DayOfWeek:      input.DayOfWeek,
			Status:         domain.SessionOngoing,
			StartTime:      s.clock.Now().UTC(),
			Exercises:      exercises,
		}
		sessionID, err = s.sessionRepo.Create(ctx, session)
		return err
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return sessionID, nil
}

// AddSelfManagedExerciseToToday appends one exercise to the day's session,
// preserving all prior exercises and the current status and totals. A new
// ongoing session holding just this exercise is created if the window is
// empty.
func (s *sessionService) AddSelfManagedExerciseToToday(ctx context.Context, userID primitive.ObjectID, day domain.DayOfWeek, dayStart, dayEnd time.Time, exerciseName string, sets []domain.TemplateSet) (primitive.ObjectID, error) {
	if userID == primitive.NilObjectID || exerciseName == "" {
		return primitive.NilObjectID, errors.New("user ID and exercise name are required")
	}
	if !day.IsValid() {
		return primitive.NilObjectID, errors.New("day of week is required")
	}

	progress := domain.ExerciseProgress{
		ExerciseName: exerciseName,
		NoOfSets:     len(sets),
		Sets:         make([]domain.ProgressSet, 0, len(sets)),
	}
	for _, set := range sets {
		progress.Sets = append(progress.Sets, domain.ProgressSet{
			Reps:      copyIntPtr(set.Reps),
			Weight:    copyFloatPtr(set.Weight),
			RestTime:  copyIntPtr(set.RestTime),
			Completed: false,
		})
	}

	var sessionID primitive.ObjectID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.sessionRepo.GetLatestInWindow(ctx, userID, day, dayStart, dayEnd)
		if err == nil {
			exercises := make([]domain.ExerciseProgress, 0, len(existing.Exercises)+1)
			exercises = append(exercises, existing.Exercises...)
			exercises = append(exercises, progress)

			sessionID = existing.ID
			return s.sessionRepo.Update(ctx, existing.ID, repository.SessionUpdate{
				Exercises: &exercises,
			})
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		session := &domain.WorkoutSession{
			UserID:    userID,
			DayOfWeek: day,
			Status:    domain.SessionOngoing,
			StartTime: s.clock.Now().UTC(),
			Exercises: []domain.ExerciseProgress{progress},
		}
		sessionID, err = s.sessionRepo.Create(ctx, session)
		return err
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return sessionID, nil
}

// UpdateSessionProgress overwrites the exercises, totals and endTime of an
// ongoing session. The status deliberately stays ongoing even though endTime
// is stamped; completion is a separate, explicit transition.
func (s *sessionService) UpdateSessionProgress(ctx context.Context, sessionID primitive.ObjectID, exercises []domain.ExerciseProgress, totalTime, totalCaloriesBurned float64) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return ErrSessionFinished
	}

	endTime := s.clock.Now().UTC()
	return s.sessionRepo.Update(ctx, sessionID, repository.SessionUpdate{
		Exercises:           &exercises,
		TotalTime:           &totalTime,
		TotalCaloriesBurned: &totalCaloriesBurned,
		EndTime:             &endTime,
	})
}

// CompleteSession finalizes the totals and moves the session to its terminal
// completed state.
func (s *sessionService) CompleteSession(ctx context.Context, sessionID primitive.ObjectID, totalTime, totalCaloriesBurned float64) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return ErrSessionFinished
	}

	status := domain.SessionCompleted
	endTime := s.clock.Now().UTC()
	return s.sessionRepo.Update(ctx, sessionID, repository.SessionUpdate{
		Status:              &status,
		EndTime:             &endTime,
		TotalTime:           &totalTime,
		TotalCaloriesBurned: &totalCaloriesBurned,
	})
}

// CancelSession moves the session to its terminal cancelled state. Totals
// are left untouched.
func (s *sessionService) CancelSession(ctx context.Context, sessionID primitive.ObjectID) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return ErrSessionFinished
	}

	status := domain.SessionCancelled
	endTime := s.clock.Now().UTC()
	return s.sessionRepo.Update(ctx, sessionID, repository.SessionUpdate{
		Status:  &status,
		EndTime: &endTime,
	})
}

func (s *sessionService) GetOngoingSession(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetOngoingByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetLatestSessionForDay(ctx context.Context, userID primitive.ObjectID, dayStart, dayEnd time.Time, day domain.DayOfWeek) (*domain.WorkoutSession, error) {
	if day == "" {
		day = domain.DayOfWeekFromTime(dayStart)
	}
	session, err := s.sessionRepo.GetLatestInWindow(ctx, userID, day, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetSessionHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.GetHistoryByUser(ctx, userID, limit)
}

// GetSessionStats sums completed sessions only.
func (s *sessionService) GetSessionStats(ctx context.Context, userID primitive.ObjectID) (*domain.SessionStats, error) {
	sessions, err := s.sessionRepo.GetCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.SessionStats{TotalSessions: len(sessions)}
	for _, session := range sessions {
		stats.TotalCalories += session.TotalCaloriesBurned
		stats.TotalTime += session.TotalTime
	}
	if stats.TotalSessions > 0 {
		stats.AvgTimePerSession = stats.TotalTime / float64(stats.TotalSessions)
	}
	return stats, nil
}

func (s *sessionService) getSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
