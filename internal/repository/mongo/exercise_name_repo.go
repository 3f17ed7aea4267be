package mongo

import (
	"context"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseNameCollectionName = "exercise_names"

// mongoExerciseNameRepository implements repository.ExerciseNameRepository
type mongoExerciseNameRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseNameRepository creates a new ExerciseName repository.
func NewMongoExerciseNameRepository(db *mongo.Database) repository.ExerciseNameRepository {
	return &mongoExerciseNameRepository{
		collection: db.Collection(exerciseNameCollectionName),
	}
}

// EnsureNames upserts the given names into the master list. Already known
// names are left untouched.
func (r *mongoExerciseNameRepository) EnsureNames(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"name": name}}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}

	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// GetAll retrieves the full master list, alphabetically.
func (r *mongoExerciseNameRepository) GetAll(ctx context.Context) ([]domain.ExerciseName, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var names []domain.ExerciseName
	if err = cursor.All(ctx, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// EnsureExerciseNameIndexes creates necessary indexes. Call during startup.
func EnsureExerciseNameIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
