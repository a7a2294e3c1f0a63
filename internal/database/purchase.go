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

// PurchaseRepository persists payment transactions.
type PurchaseRepository struct {
	coll *mongo.Collection
}

func NewPurchaseRepository(db *mongo.Database) *PurchaseRepository {
	return &PurchaseRepository{coll: db.Collection(purchasesCollection)}
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if _, err := r.coll.InsertOne(ctx, purchase); err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByIdempotencyKey resolves a prior transaction for replay detection.
// Returns (nil, nil) when the key has not been seen.
func (r *PurchaseRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"idempotencyKey": key})
}

// GetByExternalPaymentID resolves a purchase by the id the provider
// assigned, as referenced by refunds and webhooks.
func (r *PurchaseRepository) GetByExternalPaymentID(ctx context.Context, externalID string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"externalPaymentId": externalID})
}

func (r *PurchaseRepository) Update(ctx context.Context, purchase *models.Purchase) error {
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": purchase.ID}, purchase); err != nil {
		return fmt.Errorf("failed to update purchase %s: %w", purchase.ID, err)
	}
	return nil
}

func (r *PurchaseRepository) findOne(ctx context.Context, filter bson.M) (*models.Purchase, error) {
	var p models.Purchase
	err := r.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("purchase lookup failed: %w", err)
	}
	return &p, nil
}
