package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin                  Role = "admin"
	RoleTrainer                Role = "trainer"
	RoleTrainerManagedCustomer Role = "trainerManagedCustomer"
	RoleSelfManagedCustomer    Role = "selfManagedCustomer"
)

// ParseRole validates a raw role string at the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTrainer, RoleTrainerManagedCustomer, RoleSelfManagedCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// Goal describes what the customer is training towards.
type Goal string

const (
	GoalWeightLoss     Goal = "weightLoss"
	GoalMuscleGain     Goal = "muscleGain"
	GoalEndurance      Goal = "endurance"
	GoalFlexibility    Goal = "flexibility"
	GoalGeneralFitness Goal = "generalFitness"
)

func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalFlexibility, GoalGeneralFitness:
		return Goal(s), nil
	}
	return "", fmt.Errorf("invalid goal: %q", s)
}

// User represents a gym member, trainer or admin.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"` // Unique via index
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Role        Role               `bson:"role" json:"role"`
	Goal        Goal               `bson:"goal,omitempty" json:"goal,omitempty"`

	// Trainer managing this customer, if any.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`

	// Currently assigned training plan copy. A user holds at most one;
	// reassignment overwrites it, unassignment clears it.
	TrainingPlanID *primitive.ObjectID `bson:"trainingPlanId,omitempty" json:"trainingPlanId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleTrainerManagedCustomer || u.Role == RoleSelfManagedCustomer
}
