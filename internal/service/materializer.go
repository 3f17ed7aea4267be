package service

import (
	"gymtrack/gym-app/internal/domain"
)

// MaterializeDay converts the immutable template for one plan day into a
// fresh, mutable per-session exercise list. Every set starts with
// completed=false. Returns nil when the plan has nothing scheduled for the
// day. If the plan carries duplicate entries for the same weekday, the first
// one wins.
//
// The result never shares storage with the template: mutating the returned
// slice (or the optional values inside it) must not affect the plan.
func MaterializeDay(plan *domain.TrainingPlan, day domain.DayOfWeek) []domain.ExerciseProgress {
	dayPlan := plan.DayFor(day)
	if dayPlan == nil {
		return nil
	}

	exercises := make([]domain.ExerciseProgress, 0, len(dayPlan.Exercises))
	for _, tmpl := range dayPlan.Exercises {
		sets := make([]domain.ProgressSet, 0, len(tmpl.Sets))
		for _, ts := range tmpl.Sets {
			sets = append(sets, domain.ProgressSet{
				Reps:      copyIntPtr(ts.Reps),
				Weight:    copyFloatPtr(ts.Weight),
				RestTime:  copyIntPtr(ts.RestTime),
				Completed: false,
			})
		}
		exercises = append(exercises, domain.ExerciseProgress{
			ExerciseName: tmpl.ExerciseName,
			NoOfSets:     tmpl.NoOfSets,
			Sets:         sets,
		})
	}
	return exercises
}

// clonePlanDays deep-copies a plan's day list so a plan copy never shares
// storage with its source template.
func clonePlanDays(days []domain.DayPlan) []domain.DayPlan {
	if days == nil {
		return nil
	}
	cloned := make([]domain.DayPlan, len(days))
	for i, day := range days {
		cloned[i] = day
		cloned[i].Exercises = make([]domain.ExerciseTemplate, len(day.Exercises))
		for j, ex := range day.Exercises {
			cloned[i].Exercises[j] = ex
			cloned[i].Exercises[j].Sets = make([]domain.TemplateSet, len(ex.Sets))
			for k, set := range ex.Sets {
				cloned[i].Exercises[j].Sets[k] = domain.TemplateSet{
					Reps:     copyIntPtr(set.Reps),
					Weight:   copyFloatPtr(set.Weight),
					RestTime: copyIntPtr(set.RestTime),
				}
			}
		}
	}
	return cloned
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
