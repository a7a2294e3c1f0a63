package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// MatchRepository persists finished match summaries.
type MatchRepository struct {
	coll *mongo.Collection
}

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{coll: db.Collection(matchesCollection)}
}

func (r *MatchRepository) Create(ctx context.Context, match *models.MatchSummary) error {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	if _, err := r.coll.InsertOne(ctx, match); err != nil {
		return fmt.Errorf("failed to insert match summary: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MatchSummary, error) {
	var m models.MatchSummary
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match lookup failed: %w", err)
	}
	return &m, nil
}

// GetByPlayer returns every match the player participated in.
func (r *MatchRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MatchSummary, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"playersIds": playerID})
	if err != nil {
		return nil, fmt.Errorf("match query failed: %w", err)
	}
	var matches []models.MatchSummary
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return matches, nil
}

func (r *MatchRepository) Update(ctx context.Context, match *models.MatchSummary) error {
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": match.ID}, match); err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	return nil
}

func (r *MatchRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return nil
}
