package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

const (
	accountCollection = "accounts"

	// opTimeout converts a hung store call into domain.ErrStorage instead of
	// hanging the request indefinitely.
	opTimeout = 5 * time.Second
)

// AccountRepository persists accounts in MongoDB. Email uniqueness is a
// unique index, so duplicate detection happens atomically at insert time.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index. Called once at startup; the
// index is what makes concurrent same-email registrations collapse to a
// single winner.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoAccount{
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        domain.NormalizeEmail(account.Email),
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, storageErr("insert account", err)
	}

	created := *account
	created.Email = doc.Email
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var ma mongoAccount
	err := r.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("find account by email", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("find account by id", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      domain.NormalizeEmail(email),
		"updated_at": time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ma mongoAccount
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&ma)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrAccountNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateEmail
		default:
			return nil, storageErr("update profile", err)
		}
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return storageErr("update password", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (ma *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           ma.ID.Hex(),
		FirstName:    ma.FirstName,
		LastName:     ma.LastName,
		Email:        ma.Email,
		PasswordHash: ma.PasswordHash,
		Role:         ma.Role,
		CreatedAt:    unixToTime(ma.CreatedAt),
		UpdatedAt:    unixToTime(ma.UpdatedAt),
	}
}

// storageErr tags an I/O fault with domain.ErrStorage while keeping the
// technical cause in the message for server-side logs.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStorage)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
