package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the workout session lifecycle.
type SessionStatus string

const (
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed" // Terminal
	SessionCancelled SessionStatus = "cancelled" // Terminal
)

// ParseSessionStatus validates a raw status string at the boundary.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case SessionOngoing, SessionCompleted, SessionCancelled:
		return SessionStatus(s), nil
	}
	return "", fmt.Errorf("invalid session status: %q", s)
}

// IsTerminal reports whether the status permits no further transitions.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// ProgressSet is one performed (or pending) set within a session exercise.
type ProgressSet struct {
	Reps      *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight    *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	RestTime  *int     `bson:"restTime,omitempty" json:"restTime,omitempty"` // Seconds
	Completed bool     `bson:"completed" json:"completed"`
}

// ExerciseProgress tracks one exercise across a workout session.
type ExerciseProgress struct {
	ExerciseName string        `bson:"exerciseName" json:"exerciseName"`
	NoOfSets     int           `bson:"noOfSets" json:"noOfSets"`
	Sets         []ProgressSet `bson:"sets" json:"sets"`
}

// WorkoutSession is the per-user, per-day mutable record of a workout.
// It is created ongoing, mutated in place while ongoing, and terminated
// exactly once by completion or cancellation.
type WorkoutSession struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	TrainingPlanID *primitive.ObjectID `bson:"trainingPlanId,omitempty" json:"trainingPlanId,omitempty"`
	DayOfWeek      DayOfWeek           `bson:"dayOfWeek" json:"dayOfWeek"`
	Status         SessionStatus       `bson:"status" json:"status"`

	StartTime time.Time  `bson:"startTime" json:"startTime"`
	EndTime   *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"`

	Exercises []ExerciseProgress `bson:"exercises" json:"exercises"`

	TotalTime           float64 `bson:"totalTime" json:"totalTime"` // Seconds
	TotalCaloriesBurned float64 `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionStats summarises a user's completed sessions.
type SessionStats struct {
	TotalSessions     int     `json:"totalSessions"`
	TotalCalories     float64 `json:"totalCalories"`
	TotalTime         float64 `json:"totalTime"`
	AvgTimePerSession float64 `json:"avgTimePerSession"`
}
