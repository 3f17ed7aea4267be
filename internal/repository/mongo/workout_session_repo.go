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

const workoutSessionCollectionName = "workout_sessions"

// mongoWorkoutSessionRepository implements repository.WorkoutSessionRepository
type mongoWorkoutSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutSessionRepository creates a new WorkoutSession repository.
func NewMongoWorkoutSessionRepository(db *mongo.Database) repository.WorkoutSessionRepository {
	return &mongoWorkoutSessionRepository{
		collection: db.Collection(workoutSessionCollectionName),
	}
}

// Create inserts a new workout session.
func (r *mongoWorkoutSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || session.DayOfWeek == "" {
		return primitive.NilObjectID, errors.New("session requires userId and dayOfWeek")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout session by its ID.
func (r *mongoWorkoutSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetLatestInWindow returns the most recent session for the user and weekday
// whose startTime falls in [dayStart, dayEnd). The lower bound is inclusive,
// the upper exclusive. The weekday is an index partition key only; it is not
// cross-checked against the timestamps.
func (r *mongoWorkoutSessionRepository) GetLatestInWindow(ctx context.Context, userID primitive.ObjectID, day domain.DayOfWeek, dayStart, dayEnd time.Time) (*domain.WorkoutSession, error) {
	filter := bson.M{
		"userId":    userID,
		"dayOfWeek": day,
		"startTime": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startTime", Value: -1}})

	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetOngoingByUser returns the user's current ongoing session, or ErrNotFound.
func (r *mongoWorkoutSessionRepository) GetOngoingByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID, "status": domain.SessionOngoing}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startTime", Value: -1}})

	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetHistoryByUser returns the user's sessions, most recent first.
func (r *mongoWorkoutSessionRepository) GetHistoryByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutSession, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.WorkoutSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetCompletedByUser returns the user's completed sessions.
func (r *mongoWorkoutSessionRepository) GetCompletedByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID, "status": domain.SessionCompleted}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.WorkoutSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update applies the non-nil fields of the update struct to the session.
func (r *mongoWorkoutSessionRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.SessionUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Exercises != nil {
		set["exercises"] = *update.Exercises
	}
	if update.TotalTime != nil {
		set["totalTime"] = *update.TotalTime
	}
	if update.TotalCaloriesBurned != nil {
		set["totalCaloriesBurned"] = *update.TotalCaloriesBurned
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.EndTime != nil {
		set["endTime"] = *update.EndTime
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutSessionIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Day-window dedup lookup
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: -1}},
			Options: options.Index(),
		},
		{
			// Ongoing-session and stats lookups
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// History, most recent first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startTime", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
