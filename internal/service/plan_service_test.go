package service

import (
	"context"
	"testing"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestPlanService() (PlanService, *stubPlanRepo, *stubUserRepo, *stubExerciseNameRepo) {
	planRepo := newStubPlanRepo()
	userRepo := newStubUserRepo()
	exerciseNameRepo := newStubExerciseNameRepo()
	svc := NewPlanService(planRepo, userRepo, exerciseNameRepo, &stubTxManager{})
	return svc, planRepo, userRepo, exerciseNameRepo
}

func createTestUser(userRepo *stubUserRepo, name string) primitive.ObjectID {
	id, _ := userRepo.Create(context.Background(), &domain.User{
		Name:        name,
		PhoneNumber: "+100000" + name,
		Role:        domain.RoleTrainerManagedCustomer,
	})
	return id
}

func strengthPlanInput(creatorID primitive.ObjectID) CreatePlanInput {
	return CreatePlanInput{
		Name:          "Strength Base",
		Description:   "Three day split",
		DurationWeeks: 8,
		CreatedBy:     creatorID,
		Days: []domain.DayPlan{{
			Day: domain.Monday,
			Exercises: []domain.ExerciseTemplate{{
				ExerciseName: "Bench Press",
				NoOfSets:     1,
				Sets:         []domain.TemplateSet{{Reps: intPtr(8), Weight: floatPtr(60)}},
			}},
		}},
	}
}

func TestCreatePlanRecordsExerciseNames(t *testing.T) {
	svc, planRepo, _, exerciseNameRepo := newTestPlanService()

	planID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)

	plan, err := planRepo.GetByID(context.Background(), planID)
	require.NoError(t, err)
	assert.False(t, plan.IsCopy)
	assert.False(t, plan.IsAssigned)
	assert.Contains(t, exerciseNameRepo.named, "Bench Press")
}

func TestCreatePlanRejectsInvalidDayTag(t *testing.T) {
	svc, _, _, _ := newTestPlanService()

	input := strengthPlanInput(primitive.NewObjectID())
	input.Days[0].Day = "monday"
	_, err := svc.CreatePlan(context.Background(), input)
	assert.Error(t, err)
}

func TestAssignPlanCreatesIndependentCopy(t *testing.T) {
	svc, planRepo, userRepo, _ := newTestPlanService()

	sourceID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)
	userID := createTestUser(userRepo, "Alex")

	copyID, err := svc.AssignPlan(context.Background(), sourceID, userID)
	require.NoError(t, err)
	assert.NotEqual(t, sourceID, copyID)

	copied, err := planRepo.GetByID(context.Background(), copyID)
	require.NoError(t, err)
	assert.Equal(t, "Strength Base Alex", copied.Name)
	assert.True(t, copied.IsCopy)
	assert.True(t, copied.IsAssigned)

	user, err := userRepo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user.TrainingPlanID)
	assert.Equal(t, copyID, *user.TrainingPlanID)

	// Mutating the copy must not touch the source template.
	mutated := copied.Days
	*mutated[0].Exercises[0].Sets[0].Reps = 99
	source, err := planRepo.GetByID(context.Background(), sourceID)
	require.NoError(t, err)
	assert.Equal(t, 8, *source.Days[0].Exercises[0].Sets[0].Reps)
}

func TestAssignPlanReplacesPreviousAssignment(t *testing.T) {
	svc, _, userRepo, _ := newTestPlanService()

	sourceID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)
	userID := createTestUser(userRepo, "Alex")

	firstCopy, err := svc.AssignPlan(context.Background(), sourceID, userID)
	require.NoError(t, err)
	secondCopy, err := svc.AssignPlan(context.Background(), sourceID, userID)
	require.NoError(t, err)
	assert.NotEqual(t, firstCopy, secondCopy)

	user, err := userRepo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, secondCopy, *user.TrainingPlanID)
}

func TestAssignPlanUnknownTargets(t *testing.T) {
	svc, _, userRepo, _ := newTestPlanService()

	userID := createTestUser(userRepo, "Alex")
	_, err := svc.AssignPlan(context.Background(), primitive.NewObjectID(), userID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	sourceID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)
	_, err = svc.AssignPlan(context.Background(), sourceID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnassignPlanClearsReference(t *testing.T) {
	svc, _, userRepo, _ := newTestPlanService()

	sourceID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)
	userID := createTestUser(userRepo, "Alex")
	_, err = svc.AssignPlan(context.Background(), sourceID, userID)
	require.NoError(t, err)

	require.NoError(t, svc.UnassignPlan(context.Background(), userID))

	user, err := userRepo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, user.TrainingPlanID)

	assert.ErrorIs(t, svc.UnassignPlan(context.Background(), primitive.NewObjectID()), ErrUserNotFound)
}

func TestDeletePlanDetachesAllUsersFirst(t *testing.T) {
	svc, planRepo, userRepo, _ := newTestPlanService()

	planID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)

	firstUser := createTestUser(userRepo, "Alex")
	secondUser := createTestUser(userRepo, "Sam")
	require.NoError(t, userRepo.SetTrainingPlan(context.Background(), firstUser, planID))
	require.NoError(t, userRepo.SetTrainingPlan(context.Background(), secondUser, planID))

	require.NoError(t, svc.DeletePlan(context.Background(), planID))

	_, err = planRepo.GetByID(context.Background(), planID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	for _, userID := range []primitive.ObjectID{firstUser, secondUser} {
		user, err := userRepo.GetByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Nil(t, user.TrainingPlanID)
	}
}

func TestDeletePlanRetryHealsPartialCascade(t *testing.T) {
	svc, planRepo, userRepo, _ := newTestPlanService()

	planID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)

	firstUser := createTestUser(userRepo, "Alex")
	secondUser := createTestUser(userRepo, "Sam")
	require.NoError(t, userRepo.SetTrainingPlan(context.Background(), firstUser, planID))
	require.NoError(t, userRepo.SetTrainingPlan(context.Background(), secondUser, planID))

	// First attempt fails mid-cascade while detaching one user.
	userRepo.failClearFor = secondUser
	err = svc.DeletePlan(context.Background(), planID)
	require.Error(t, err)

	// The plan survives and the retry picks up only the still-attached users.
	_, err = planRepo.GetByID(context.Background(), planID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(context.Background(), planID))
	_, err = planRepo.GetByID(context.Background(), planID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	user, err := userRepo.GetByID(context.Background(), secondUser)
	require.NoError(t, err)
	assert.Nil(t, user.TrainingPlanID)
}

func TestDeletePlanUnknown(t *testing.T) {
	svc, _, _, _ := newTestPlanService()
	assert.ErrorIs(t, svc.DeletePlan(context.Background(), primitive.NewObjectID()), ErrPlanNotFound)
}

func TestUpdatePlanValidatesDays(t *testing.T) {
	svc, planRepo, _, exerciseNameRepo := newTestPlanService()

	planID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)

	badDays := []domain.DayPlan{{Day: "someday"}}
	err = svc.UpdatePlan(context.Background(), planID, repository.TrainingPlanUpdate{Days: &badDays})
	assert.Error(t, err)

	newDays := []domain.DayPlan{{
		Day:       domain.Friday,
		Exercises: []domain.ExerciseTemplate{{ExerciseName: "Overhead Press", NoOfSets: 1}},
	}}
	require.NoError(t, svc.UpdatePlan(context.Background(), planID, repository.TrainingPlanUpdate{Days: &newDays}))

	plan, err := planRepo.GetByID(context.Background(), planID)
	require.NoError(t, err)
	assert.Equal(t, domain.Friday, plan.Days[0].Day)
	assert.Contains(t, exerciseNameRepo.named, "Overhead Press")
}

func TestListUsersByPlan(t *testing.T) {
	svc, _, userRepo, _ := newTestPlanService()

	planID, err := svc.CreatePlan(context.Background(), strengthPlanInput(primitive.NewObjectID()))
	require.NoError(t, err)

	userID := createTestUser(userRepo, "Alex")
	require.NoError(t, userRepo.SetTrainingPlan(context.Background(), userID, planID))
	createTestUser(userRepo, "Sam") // unassigned

	users, err := svc.ListUsersByPlan(context.Background(), planID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0].ID)
}
