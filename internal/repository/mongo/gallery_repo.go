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

const galleryCollectionName = "gallery"

// mongoGalleryRepository implements repository.GalleryRepository
type mongoGalleryRepository struct {
	collection *mongo.Collection
}

// NewMongoGalleryRepository creates a new Gallery repository.
func NewMongoGalleryRepository(db *mongo.Database) repository.GalleryRepository {
	return &mongoGalleryRepository{
		collection: db.Collection(galleryCollectionName),
	}
}

// Create inserts a new gallery item.
func (r *mongoGalleryRepository) Create(ctx context.Context, item *domain.GalleryItem) (primitive.ObjectID, error) {
	if item.ImageURL == "" && item.StorageKey == nil {
		return primitive.NilObjectID, errors.New("gallery item requires an image URL or a storage key")
	}
	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted gallery item ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single gallery item.
func (r *mongoGalleryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GalleryItem, error) {
	var item domain.GalleryItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetAll retrieves every gallery item, newest first.
func (r *mongoGalleryRepository) GetAll(ctx context.Context) ([]domain.GalleryItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.GalleryItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a gallery item.
func (r *mongoGalleryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListImageKeys returns the distinct set of blob keys referenced by gallery items.
func (r *mongoGalleryRepository) ListImageKeys(ctx context.Context) ([]string, error) {
	return listStringField(ctx, r.collection, "storageId")
}
