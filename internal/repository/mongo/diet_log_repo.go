package mongo

import (
	"context"
	"errors"
	"time"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dietLogCollectionName = "diet_logs"

// mongoDietLogRepository implements repository.DietLogRepository
type mongoDietLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDietLogRepository creates a new DietLog repository.
func NewMongoDietLogRepository(db *mongo.Database) repository.DietLogRepository {
	return &mongoDietLogRepository{
		collection: db.Collection(dietLogCollectionName),
	}
}

// Create inserts a new diet log entry.
func (r *mongoDietLogRepository) Create(ctx context.Context, log *domain.DietLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID || log.MealType == "" {
		return primitive.NilObjectID, errors.New("diet log requires userId and mealType")
	}
	log.ID = primitive.NewObjectID()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted diet log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single diet log entry.
func (r *mongoDietLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietLog, error) {
	var log domain.DietLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByUser retrieves all diet logs for a user, newest first.
func (r *mongoDietLogRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.DietLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.DietLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetByUserInRange retrieves the user's diet logs with createdAt in
// [rangeStart, rangeEnd], inclusive at both ends. This matches the client's
// current/previous window comparison, unlike the half-open day windows used
// for workout sessions.
func (r *mongoDietLogRepository) GetByUserInRange(ctx context.Context, userID primitive.ObjectID, rangeStart, rangeEnd time.Time) ([]domain.DietLog, error) {
	filter := bson.M{
		"userId":    userID,
		"createdAt": bson.M{"$gte": rangeStart, "$lte": rangeEnd},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.DietLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Update applies the non-nil fields of the update struct to the entry.
func (r *mongoDietLogRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.DietLogUpdate) error {
	set := bson.M{}
	if update.MealType != nil {
		set["mealType"] = *update.MealType
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Calories != nil {
		set["calories"] = *update.Calories
	}
	if update.ImageKey != nil {
		set["imageId"] = *update.ImageKey
	}

	updateDoc := bson.M{}
	if len(set) > 0 {
		updateDoc["$set"] = set
	}
	if update.ClearImage {
		updateDoc["$unset"] = bson.M{"imageId": ""}
	}
	if len(updateDoc) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a diet log entry.
func (r *mongoDietLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListImageKeys returns the distinct set of blob keys referenced by diet logs.
// The field is sparse; rows without an image contribute nothing.
func (r *mongoDietLogRepository) ListImageKeys(ctx context.Context) ([]string, error) {
	return listStringField(ctx, r.collection, "imageId")
}

// EnsureDietLogIndexes creates necessary indexes. Call during startup.
func EnsureDietLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

// listStringField collects the distinct non-null string values of a sparse
// reference field. Shared by the repositories that act as GC roots.
func listStringField(ctx context.Context, collection *mongo.Collection, field string) ([]string, error) {
	filter := bson.M{field: bson.M{"$exists": true, "$ne": nil}}
	values, err := collection.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			keys = append(keys, s)
		}
	}
	return keys, nil
}
