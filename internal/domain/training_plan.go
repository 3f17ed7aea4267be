package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateSet is one prescribed set inside an exercise template. All fields
// are optional; a trainer may prescribe reps only, weight only, or neither.
type TemplateSet struct {
	Reps     *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight   *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	RestTime *int     `bson:"restTime,omitempty" json:"restTime,omitempty"` // Seconds
}

// ExerciseTemplate is one exercise entry in a plan day.
type ExerciseTemplate struct {
	ExerciseName string        `bson:"exerciseName" json:"exerciseName"`
	NoOfSets     int           `bson:"noOfSets" json:"noOfSets"`
	Sets         []TemplateSet `bson:"sets" json:"sets"`
}

// DayPlan holds the exercises prescribed for one weekday of a plan.
// Weekday uniqueness across a plan's days is not enforced structurally;
// consumers take the first matching entry.
type DayPlan struct {
	Day         DayOfWeek          `bson:"day" json:"day"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []ExerciseTemplate `bson:"exercises" json:"exercises"`
}

// TrainingPlan is an immutable weekly template created by a trainer.
// Assignment never hands the template itself to a user; it creates an
// independent copy with IsCopy set, owned by exactly one user.
type TrainingPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Days          []DayPlan          `bson:"days" json:"days"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	IsCopy        bool               `bson:"isCopy" json:"isCopy"`
	IsAssigned    bool               `bson:"isAssigned" json:"isAssigned"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DayFor returns the first day entry matching the given weekday, or nil if
// the plan has nothing scheduled for that day.
func (p *TrainingPlan) DayFor(day DayOfWeek) *DayPlan {
	for i := range p.Days {
		if p.Days[i].Day == day {
			return &p.Days[i]
		}
	}
	return nil
}

// ExerciseName is an entry in the master list of known exercise names.
type ExerciseName struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"` // Unique via index
}
