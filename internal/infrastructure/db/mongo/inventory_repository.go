package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

const (
	classificationCollection = "classifications"
	vehicleCollection        = "vehicles"
)

// InventoryRepository persists the vehicle catalog in MongoDB.
type InventoryRepository struct {
	classifications *mongo.Collection
	vehicles        *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{
		classifications: db.Collection(classificationCollection),
		vehicles:        db.Collection(vehicleCollection),
	}
}

type mongoClassification struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

type mongoVehicle struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ClassificationID string             `bson:"classification_id"`
	Make             string             `bson:"make"`
	Model            string             `bson:"model"`
	Year             int                `bson:"year"`
	Description      string             `bson:"description"`
	Price            float64            `bson:"price"`
	Miles            int                `bson:"miles"`
	Color            string             `bson:"color"`
	ImagePath        string             `bson:"image_path,omitempty"`
	ThumbnailPath    string             `bson:"thumbnail_path,omitempty"`
	CreatedAt        int64              `bson:"created_at"`
	UpdatedAt        int64              `bson:"updated_at"`
}

// EnsureIndexes creates the catalog indexes: unique classification names and
// the browse/search access paths.
func (r *InventoryRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.classifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return storageErr("ensure classification indexes", err)
	}

	if _, err := r.vehicles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "classification_id", Value: 1}},
	}); err != nil {
		return storageErr("ensure vehicle indexes", err)
	}
	return nil
}

func (r *InventoryRepository) CreateClassification(ctx context.Context, c *domain.Classification) (*domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.classifications.InsertOne(ctx, mongoClassification{Name: c.Name})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateClassification
		}
		return nil, storageErr("insert classification", err)
	}

	created := *c
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *InventoryRepository) ListClassifications(ctx context.Context) ([]*domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.classifications.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr("list classifications", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Classification
	for cursor.Next(ctx) {
		var mc mongoClassification
		if err := cursor.Decode(&mc); err != nil {
			return nil, storageErr("decode classification", err)
		}
		out = append(out, &domain.Classification{ID: mc.ID.Hex(), Name: mc.Name})
	}
	if err := cursor.Err(); err != nil {
		return nil, storageErr("list classifications", err)
	}
	return out, nil
}

func (r *InventoryRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.vehicles.InsertOne(ctx, vehicleToMongo(v))
	if err != nil {
		return nil, storageErr("insert vehicle", err)
	}

	created := *v
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return nil, domain.ErrVehicleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"classification_id": v.ClassificationID,
		"make":              v.Make,
		"model":             v.Model,
		"year":              v.Year,
		"description":       v.Description,
		"price":             v.Price,
		"miles":             v.Miles,
		"color":             v.Color,
		"image_path":        v.ImagePath,
		"thumbnail_path":    v.ThumbnailPath,
		"updated_at":        time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mv mongoVehicle
	if err := r.vehicles.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, storageErr("update vehicle", err)
	}
	return mv.toDomain(), nil
}

func (r *InventoryRepository) FindVehicleByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVehicleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var mv mongoVehicle
	if err := r.vehicles.FindOne(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, storageErr("find vehicle", err)
	}
	return mv.toDomain(), nil
}

func (r *InventoryRepository) ListVehiclesByClassification(ctx context.Context, classificationID string) ([]*domain.Vehicle, error) {
	return r.findVehicles(ctx, bson.M{"classification_id": classificationID})
}

// SearchVehicles matches the keyword case-insensitively against make, model
// and description. The keyword is quoted so metacharacters match literally.
func (r *InventoryRepository) SearchVehicles(ctx context.Context, keyword string) ([]*domain.Vehicle, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	return r.findVehicles(ctx, bson.M{"$or": bson.A{
		bson.M{"make": pattern},
		bson.M{"model": pattern},
		bson.M{"description": pattern},
	}})
}

func (r *InventoryRepository) findVehicles(ctx context.Context, filter bson.M) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}})
	cursor, err := r.vehicles.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageErr("find vehicles", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Vehicle
	for cursor.Next(ctx) {
		var mv mongoVehicle
		if err := cursor.Decode(&mv); err != nil {
			return nil, storageErr("decode vehicle", err)
		}
		out = append(out, mv.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, storageErr("find vehicles", err)
	}
	return out, nil
}

func vehicleToMongo(v *domain.Vehicle) mongoVehicle {
	return mongoVehicle{
		ClassificationID: v.ClassificationID,
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Description:      v.Description,
		Price:            v.Price,
		Miles:            v.Miles,
		Color:            v.Color,
		ImagePath:        v.ImagePath,
		ThumbnailPath:    v.ThumbnailPath,
		CreatedAt:        v.CreatedAt.Unix(),
		UpdatedAt:        v.UpdatedAt.Unix(),
	}
}

func (mv *mongoVehicle) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:               mv.ID.Hex(),
		ClassificationID: mv.ClassificationID,
		Make:             mv.Make,
		Model:            mv.Model,
		Year:             mv.Year,
		Description:      mv.Description,
		Price:            mv.Price,
		Miles:            mv.Miles,
		Color:            mv.Color,
		ImagePath:        mv.ImagePath,
		ThumbnailPath:    mv.ThumbnailPath,
		CreatedAt:        unixToTime(mv.CreatedAt),
		UpdatedAt:        unixToTime(mv.UpdatedAt),
	}
}

