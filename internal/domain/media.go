package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType categorises a diet log entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func ParseMealType(s string) (MealType, error) {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return MealType(s), nil
	}
	return "", fmt.Errorf("invalid meal type: %q", s)
}

// DietLog records one meal eaten by a user, optionally with a photo.
// ImageKey points at the object in blob storage; the storage collector
// treats it as a GC root.
type DietLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	MealType    MealType           `bson:"mealType" json:"mealType"`
	Description string             `bson:"description" json:"description"`
	Calories    float64            `bson:"calories" json:"calories"`
	ImageKey    *string            `bson:"imageId,omitempty" json:"imageId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// WeightLog records one body-weight measurement.
type WeightLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Weight    float64            `bson:"weight" json:"weight"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// GalleryItem is a gym gallery photo. Either an external URL or an uploaded
// blob (StorageKey) backs the image; StorageKey is a GC root.
type GalleryItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	ImageURL   string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	StorageKey *string            `bson:"storageId,omitempty" json:"storageId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SuccessStory is a published client testimonial. ImageStorageKey is a GC root.
type SuccessStory struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientName      string             `bson:"clientName" json:"clientName"`
	Story           string             `bson:"story" json:"story"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageStorageKey *string            `bson:"imageStorageId,omitempty" json:"imageStorageId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TransformationImage is a before/after photo shown on the landing page.
// ImageStorageKey is a GC root.
type TransformationImage struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Caption         string             `bson:"caption,omitempty" json:"caption,omitempty"`
	ImageStorageKey *string            `bson:"imageStorageId,omitempty" json:"imageStorageId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
