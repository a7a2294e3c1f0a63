package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// UserFilters narrows a user listing. Name matches as a case-insensitive
// substring; email and username as exact values. Page is 1-based.
type UserFilters struct {
	Name           string
	Email          string
	Username       string
	ActiveStatus   *bool
	AdminPrivilege *bool
	Page           int
	Size           int
	StartDate      *time.Time
	EndDate        *time.Time
}

// UserRepository persists users in the "Users" collection. Updates replace
// the whole document by id; concurrent writers follow last-write-wins.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository binds a repository to the database's Users collection.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// GetAll returns every user document.
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{}, nil)
}

// GetByFilters applies every populated filter field, with skip/limit
// pagination derived from Page and Size.
func (r *UserRepository) GetByFilters(ctx context.Context, filters UserFilters) ([]models.User, error) {
	filter := bson.M{}

	if filters.Email != "" {
		filter["email"] = filters.Email
	}
	if filters.Username != "" {
		filter["username"] = filters.Username
	}
	if filters.Name != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: filters.Name, Options: "i"}}
	}
	if filters.ActiveStatus != nil {
		filter["isAccountActive"] = *filters.ActiveStatus
	}
	if filters.AdminPrivilege != nil {
		filter["isAdmin"] = *filters.AdminPrivilege
	}
	if filters.StartDate != nil || filters.EndDate != nil {
		created := bson.M{}
		if filters.StartDate != nil {
			created["$gte"] = *filters.StartDate
		}
		if filters.EndDate != nil {
			created["$lte"] = *filters.EndDate
		}
		filter["createdDate"] = created
	}

	opts := options.Find()
	if filters.Size > 0 {
		opts.SetLimit(int64(filters.Size))
		if filters.Page > 1 {
			opts.SetSkip(int64(filters.Page-1) * int64(filters.Size))
		}
	}

	return r.find(ctx, filter, opts)
}

// GetByIdentifier resolves a user whose email or username equals the
// identifier. Returns (nil, nil) when no document matches.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return r.findOne(ctx, filter)
}

// GetByID resolves a user by document id. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// CreateMany inserts a batch of user documents.
func (r *UserRepository) CreateMany(ctx context.Context, users []models.User) error {
	docs := make([]interface{}, 0, len(users))
	for i := range users {
		if users[i].ID == uuid.Nil {
			users[i].ID = uuid.New()
		}
		docs = append(docs, users[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}
	return nil
}

// Update replaces the stored document with the given user, matched by id.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// DeleteByID removes the user document with the given id.
func (r *UserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// DeleteByEmail removes the user document with the given email.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("failed to delete user by email: %w", err)
	}
	return nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.coll.Find(ctx, filter, opts)
	} else {
		cursor, err = r.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("user query failed: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &u, nil
}
