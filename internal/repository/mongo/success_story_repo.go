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

const successStoryCollectionName = "success_stories"

// mongoSuccessStoryRepository implements repository.SuccessStoryRepository
type mongoSuccessStoryRepository struct {
	collection *mongo.Collection
}

// NewMongoSuccessStoryRepository creates a new SuccessStory repository.
func NewMongoSuccessStoryRepository(db *mongo.Database) repository.SuccessStoryRepository {
	return &mongoSuccessStoryRepository{
		collection: db.Collection(successStoryCollectionName),
	}
}

// Create inserts a new success story.
func (r *mongoSuccessStoryRepository) Create(ctx context.Context, story *domain.SuccessStory) (primitive.ObjectID, error) {
	if story.ClientName == "" || story.Story == "" {
		return primitive.NilObjectID, errors.New("success story requires clientName and story")
	}
	story.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, story)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted story ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single success story.
func (r *mongoSuccessStoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SuccessStory, error) {
	var story domain.SuccessStory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// GetAll retrieves every success story, newest first.
func (r *mongoSuccessStoryRepository) GetAll(ctx context.Context) ([]domain.SuccessStory, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []domain.SuccessStory
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// Update applies the non-nil fields of the update struct to the story.
func (r *mongoSuccessStoryRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.SuccessStoryUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.ClientName != nil {
		set["clientName"] = *update.ClientName
	}
	if update.Story != nil {
		set["story"] = *update.Story
	}
	if update.ImageURL != nil {
		set["imageUrl"] = *update.ImageURL
	}
	if update.ImageStorageKey != nil {
		set["imageStorageId"] = *update.ImageStorageKey
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

// Delete removes a success story.
func (r *mongoSuccessStoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListImageKeys returns the distinct set of blob keys referenced by success stories.
func (r *mongoSuccessStoryRepository) ListImageKeys(ctx context.Context) ([]string, error) {
	return listStringField(ctx, r.collection, "imageStorageId")
}
