package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdoyle/galleria/gallery/domain"
)

var _ domain.ImageRepository = (*MongoImageRepository)(nil)

const imagesCollection = "images"

// MongoImageRepository implements domain.ImageRepository on a MongoDB
// collection. Record ids are ObjectID hex strings.
type MongoImageRepository struct {
	images *mongo.Collection
}

// NewMongoImageRepository wraps the images collection of the given
// database.
func NewMongoImageRepository(db *mongo.Database) *MongoImageRepository {
	return &MongoImageRepository{
		images: db.Collection(imagesCollection),
	}
}

// imageDocument is the persisted document shape.
type imageDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	ImageURL    string             `bson:"image_url"`
	StoredName  string             `bson:"original_name"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *imageDocument) toDomain() *domain.Image {
	return &domain.Image{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		StoredName:  d.StoredName,
		CreatedAt:   d.CreatedAt,
	}
}

// Create validates and inserts a new record, returning it with the
// assigned id and creation time.
func (r *MongoImageRepository) Create(ctx context.Context, img *domain.Image) (*domain.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	if err := validateTitle(img.Title); err != nil {
		return nil, err
	}

	doc := imageDocument{
		Title:       img.Title,
		Description: img.Description,
		ImageURL:    img.ImageURL,
		StoredName:  img.StoredName,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := r.images.InsertOne(ctx, doc)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to insert image record", err)
	}

	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// Get retrieves a single record by id.
func (r *MongoImageRepository) Get(ctx context.Context, id string) (*domain.Image, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc imageDocument
	err = r.images.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get image record", err)
	}

	return doc.toDomain(), nil
}

// List returns every record, newest first.
func (r *MongoImageRepository) List(ctx context.Context) ([]*domain.Image, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.images.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list image records", err)
	}
	defer cursor.Close(ctx)

	images := []*domain.Image{}
	for cursor.Next(ctx) {
		var doc imageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.NewPersistenceError("failed to decode image record", err)
		}
		images = append(images, doc.toDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.NewPersistenceError("failed to iterate image records", err)
	}

	return images, nil
}

// Update merges the supplied fields into an existing record and returns
// the updated document. Validation runs before the collection is
// touched, so a rejected update mutates nothing.
func (r *MongoImageRepository) Update(ctx context.Context, id string, fields domain.ImageUpdate) (*domain.Image, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	set, err := buildUpdateDocument(fields)
	if err != nil {
		return nil, err
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc imageDocument
	err = r.images.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update image record", err)
	}

	return doc.toDomain(), nil
}

// Delete removes a record by id.
func (r *MongoImageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	result, err := r.images.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewPersistenceError("failed to delete image record", err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// buildUpdateDocument converts a partial update into a $set document.
// A supplied-but-empty title is a validation failure; an absent title
// simply stays as it was.
func buildUpdateDocument(fields domain.ImageUpdate) (bson.M, error) {
	set := bson.M{}

	if fields.Title != nil {
		if err := validateTitle(*fields.Title); err != nil {
			return nil, err
		}
		set["title"] = *fields.Title
	}

	if fields.Description != nil {
		set["description"] = *fields.Description
	}

	if fields.ImageURL != nil {
		set["image_url"] = *fields.ImageURL
	}

	if fields.StoredName != nil {
		set["original_name"] = *fields.StoredName
	}

	return set, nil
}

func validateTitle(title string) error {
	if title == "" {
		return domain.NewValidationError("title is required")
	}
	return nil
}
