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

const transformationImageCollectionName = "transformation_images"

// mongoTransformationImageRepository implements repository.TransformationImageRepository
type mongoTransformationImageRepository struct {
	collection *mongo.Collection
}

// NewMongoTransformationImageRepository creates a new TransformationImage repository.
func NewMongoTransformationImageRepository(db *mongo.Database) repository.TransformationImageRepository {
	return &mongoTransformationImageRepository{
		collection: db.Collection(transformationImageCollectionName),
	}
}

// Create inserts a new transformation image record.
func (r *mongoTransformationImageRepository) Create(ctx context.Context, image *domain.TransformationImage) (primitive.ObjectID, error) {
	if image.ImageStorageKey == nil || *image.ImageStorageKey == "" {
		return primitive.NilObjectID, errors.New("transformation image requires a storage key")
	}
	image.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	image.CreatedAt = now
	image.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, image)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted image ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single transformation image record.
func (r *mongoTransformationImageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TransformationImage, error) {
	var image domain.TransformationImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// GetAll retrieves every transformation image, newest first.
func (r *mongoTransformationImageRepository) GetAll(ctx context.Context) ([]domain.TransformationImage, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []domain.TransformationImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// Delete removes a transformation image record.
func (r *mongoTransformationImageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListImageKeys returns the distinct set of blob keys referenced by transformation images.
func (r *mongoTransformationImageRepository) ListImageKeys(ctx context.Context) ([]string, error) {
	return listStringField(ctx, r.collection, "imageStorageId")
}
