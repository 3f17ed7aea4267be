package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound = errors.New("training plan not found")
	ErrUserNotFound = errors.New("user not found")
)

// CreatePlanInput carries the arguments for creating a training plan template.
type CreatePlanInput struct {
	Name          string
	Description   string
	Days          []domain.DayPlan
	DurationWeeks int
	CreatedBy     primitive.ObjectID
}

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (primitive.ObjectID, error)
	GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListPlansByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.TrainingPlan, error)
	ListAllPlans(ctx context.Context) ([]domain.TrainingPlan, error)
	UpdatePlan(ctx context.Context, planID primitive.ObjectID, update repository.TrainingPlanUpdate) error

	// AssignPlan copies the source template into a new plan owned by the
	// user and points the user at the copy. The source is never mutated.
	AssignPlan(ctx context.Context, planID, userID primitive.ObjectID) (primitive.ObjectID, error)

	// UnassignPlan clears the user's plan reference; the plan row itself is
	// left untouched.
	UnassignPlan(ctx context.Context, userID primitive.ObjectID) error

	// DeletePlan detaches every referencing user first and deletes the plan
	// row only afterwards, so a crash mid-cascade leaves a plan with zero
	// referrers rather than users pointing at a deleted plan.
	DeletePlan(ctx context.Context, planID primitive.ObjectID) error

	ListUsersByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.User, error)
	ListExerciseNames(ctx context.Context) ([]domain.ExerciseName, error)
}

// --- Service Implementation ---

type planService struct {
	planRepo         repository.TrainingPlanRepository
	userRepo         repository.UserRepository
	exerciseNameRepo repository.ExerciseNameRepository
	tx               repository.TxManager
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.TrainingPlanRepository,
	userRepo repository.UserRepository,
	exerciseNameRepo repository.ExerciseNameRepository,
	tx repository.TxManager,
) PlanService {
	return &planService{
		planRepo:         planRepo,
		userRepo:         userRepo,
		exerciseNameRepo: exerciseNameRepo,
		tx:               tx,
	}
}

// CreatePlan validates the day tags and stores a new template.
func (s *planService) CreatePlan(ctx context.Context, input CreatePlanInput) (primitive.ObjectID, error) {
	if input.Name == "" || input.CreatedBy == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan name and creator are required")
	}
	for _, day := range input.Days {
		if !day.Day.IsValid() {
			return primitive.NilObjectID, fmt.Errorf("invalid day of week: %q", day.Day)
		}
	}

	plan := &domain.TrainingPlan{
		Name:          input.Name,
		Description:   input.Description,
		Days:          input.Days,
		DurationWeeks: input.DurationWeeks,
		CreatedBy:     input.CreatedBy,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	s.ensureExerciseNames(ctx, input.Days)
	return planID, nil
}

func (s *planService) GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) ListPlansByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetByCreator(ctx, creatorID)
}

func (s *planService) ListAllPlans(ctx context.Context) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetAll(ctx)
}

func (s *planService) UpdatePlan(ctx context.Context, planID primitive.ObjectID, update repository.TrainingPlanUpdate) error {
	if update.Days != nil {
		for _, day := range *update.Days {
			if !day.Day.IsValid() {
				return fmt.Errorf("invalid day of week: %q", day.Day)
			}
		}
	}

	err := s.planRepo.Update(ctx, planID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if update.Days != nil {
		s.ensureExerciseNames(ctx, *update.Days)
	}
	return nil
}

// AssignPlan implements copy-on-assign. The copy carries the source's days,
// duration and creator, is named "<source.name> <user.name>", and is flagged
// isCopy/isAssigned. The user's plan reference is overwritten; any previous
// assignment is simply replaced.
func (s *planService) AssignPlan(ctx context.Context, planID, userID primitive.ObjectID) (primitive.ObjectID, error) {
	var copyID primitive.ObjectID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		source, err := s.planRepo.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		planCopy := &domain.TrainingPlan{
			Name:          source.Name + " " + user.Name,
			Description:   source.Description,
			Days:          clonePlanDays(source.Days),
			DurationWeeks: source.DurationWeeks,
			CreatedBy:     source.CreatedBy,
			IsCopy:        true,
			IsAssigned:    true,
		}
		copyID, err = s.planRepo.Create(ctx, planCopy)
		if err != nil {
			return err
		}

		return s.userRepo.SetTrainingPlan(ctx, userID, copyID)
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return copyID, nil
}

func (s *planService) UnassignPlan(ctx context.Context, userID primitive.ObjectID) error {
	err := s.userRepo.ClearTrainingPlan(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// DeletePlan runs the detach-then-delete cascade. The referrer list is
// queried fresh, so a retry after a mid-cascade failure picks up exactly the
// users still attached.
func (s *planService) DeletePlan(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return err
	}

	users, err := s.userRepo.GetByTrainingPlanID(ctx, planID)
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := s.userRepo.ClearTrainingPlan(ctx, user.ID); err != nil {
			return fmt.Errorf("detaching user %s from plan: %w", user.ID.Hex(), err)
		}
	}

	err = s.planRepo.Delete(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

func (s *planService) ListUsersByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.User, error) {
	return s.userRepo.GetByTrainingPlanID(ctx, planID)
}

func (s *planService) ListExerciseNames(ctx context.Context) ([]domain.ExerciseName, error) {
	return s.exerciseNameRepo.GetAll(ctx)
}

// ensureExerciseNames keeps the master list in sync with names appearing in
// plans. Best effort; a failure here never fails the plan write.
func (s *planService) ensureExerciseNames(ctx context.Context, days []domain.DayPlan) {
	var names []string
	for _, day := range days {
		for _, ex := range day.Exercises {
			names = append(names, ex.ExerciseName)
		}
	}
	if len(names) == 0 {
		return
	}
	if err := s.exerciseNameRepo.EnsureNames(ctx, names); err != nil {
		log.Printf("WARN: Failed to update exercise name master list: %v", err)
	}
}
