package service

import (
	"testing"

	"gymtrack/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeDayReturnsNilForMissingDay(t *testing.T) {
	plan := &domain.TrainingPlan{
		Days: []domain.DayPlan{{Day: domain.Monday}},
	}
	assert.Nil(t, MaterializeDay(plan, domain.Tuesday))
}

func TestMaterializeDayStartsAllSetsIncomplete(t *testing.T) {
	plan := &domain.TrainingPlan{
		Days: []domain.DayPlan{{
			Day: domain.Monday,
			Exercises: []domain.ExerciseTemplate{{
				ExerciseName: "Bench Press",
				NoOfSets:     2,
				Sets: []domain.TemplateSet{
					{Reps: intPtr(8), Weight: floatPtr(60), RestTime: intPtr(90)},
					{Reps: intPtr(6)},
				},
			}},
		}},
	}

	exercises := MaterializeDay(plan, domain.Monday)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Bench Press", exercises[0].ExerciseName)
	assert.Equal(t, 2, exercises[0].NoOfSets)
	require.Len(t, exercises[0].Sets, 2)
	for _, set := range exercises[0].Sets {
		assert.False(t, set.Completed)
	}
	assert.Equal(t, 8, *exercises[0].Sets[0].Reps)
	assert.Equal(t, 90, *exercises[0].Sets[0].RestTime)
	assert.Nil(t, exercises[0].Sets[1].Weight)
}

func TestMaterializeDayNeverSharesStorageWithTemplate(t *testing.T) {
	plan := &domain.TrainingPlan{
		Days: []domain.DayPlan{{
			Day: domain.Monday,
			Exercises: []domain.ExerciseTemplate{{
				ExerciseName: "Squat",
				NoOfSets:     1,
				Sets:         []domain.TemplateSet{{Reps: intPtr(5), Weight: floatPtr(80)}},
			}},
		}},
	}

	exercises := MaterializeDay(plan, domain.Monday)
	*exercises[0].Sets[0].Reps = 99
	*exercises[0].Sets[0].Weight = 999
	exercises[0].ExerciseName = "Mutated"

	assert.Equal(t, 5, *plan.Days[0].Exercises[0].Sets[0].Reps)
	assert.Equal(t, 80.0, *plan.Days[0].Exercises[0].Sets[0].Weight)
	assert.Equal(t, "Squat", plan.Days[0].Exercises[0].ExerciseName)
}

func TestMaterializeDayFirstDuplicateWins(t *testing.T) {
	plan := &domain.TrainingPlan{
		Days: []domain.DayPlan{
			{
				Day:       domain.Monday,
				Exercises: []domain.ExerciseTemplate{{ExerciseName: "Bench Press", NoOfSets: 1}},
			},
			{
				Day:       domain.Monday,
				Exercises: []domain.ExerciseTemplate{{ExerciseName: "Squat", NoOfSets: 1}},
			},
		},
	}

	exercises := MaterializeDay(plan, domain.Monday)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Bench Press", exercises[0].ExerciseName)
}

func TestClonePlanDaysIsDeep(t *testing.T) {
	days := []domain.DayPlan{{
		Day: domain.Friday,
		Exercises: []domain.ExerciseTemplate{{
			ExerciseName: "Row",
			Sets:         []domain.TemplateSet{{Reps: intPtr(12)}},
		}},
	}}

	cloned := clonePlanDays(days)
	*cloned[0].Exercises[0].Sets[0].Reps = 1
	cloned[0].Exercises[0].ExerciseName = "Changed"

	assert.Equal(t, 12, *days[0].Exercises[0].Sets[0].Reps)
	assert.Equal(t, "Row", days[0].Exercises[0].ExerciseName)
	assert.Nil(t, clonePlanDays(nil))
}
