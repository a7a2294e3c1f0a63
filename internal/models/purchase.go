package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseType distinguishes what a purchase pays for.
type PurchaseType string

const (
	PurchaseCosmetic     PurchaseType = "COSMETIC"
	PurchaseSubscription PurchaseType = "SUBSCRIPTION"
)

// PurchaseStatus tracks a transaction through its lifecycle.
type PurchaseStatus string

const (
	PurchasePending    PurchaseStatus = "PENDING"
	PurchaseProcessing PurchaseStatus = "PROCESSING"
	PurchaseCompleted  PurchaseStatus = "COMPLETED"
	PurchaseFailed     PurchaseStatus = "FAILED"
	PurchaseRefunded   PurchaseStatus = "REFUNDED"
	PurchaseDisputed   PurchaseStatus = "DISPUTED"
)

// ProviderName identifies a supported payment provider.
type ProviderName string

const (
	ProviderStripe ProviderName = "STRIPE"
	ProviderPaypal ProviderName = "PAYPAL"
)

// Purchase is the persisted record of a transaction against a payment provider.
type Purchase struct {
	ID           uuid.UUID    `bson:"_id" json:"id"`
	Type         PurchaseType `bson:"type" json:"type"`
	PurchaseDate time.Time    `bson:"purchaseDate" json:"purchase_date"`
	Amount       float64      `bson:"amount" json:"amount"`
	Currency     string       `bson:"currency" json:"currency"`

	// DataJson carries provider- or item-specific detail (e.g. cosmetic
	// item id, subscription plan) as serialized JSON.
	DataJson       string `bson:"dataJson" json:"data_json"`
	IdempotencyKey string `bson:"idempotencyKey" json:"idempotency_key"`

	PaymentProviderName ProviderName   `bson:"paymentProviderName" json:"payment_provider_name"`
	ExternalPaymentID   string         `bson:"externalPaymentId" json:"external_payment_id"`
	Status              PurchaseStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`

	// ProcessedWebhookEventIDs guards against handling the same provider
	// webhook event twice.
	ProcessedWebhookEventIDs []string `bson:"processedWebhookEventIds" json:"processed_webhook_event_ids"`
}

// NewPurchase builds a pending purchase record with a fresh id.
func NewPurchase(ptype PurchaseType, provider ProviderName, amount float64, currency, idempotencyKey, dataJson string) *Purchase {
	now := time.Now().UTC()
	return &Purchase{
		ID:                       uuid.New(),
		Type:                     ptype,
		PurchaseDate:             now,
		Amount:                   amount,
		Currency:                 currency,
		DataJson:                 dataJson,
		IdempotencyKey:           idempotencyKey,
		PaymentProviderName:      provider,
		Status:                   PurchasePending,
		CreatedAt:                now,
		UpdatedAt:                now,
		ProcessedWebhookEventIDs: []string{},
	}
}

// SetStatus transitions the purchase and bumps the update timestamp.
func (p *Purchase) SetStatus(status PurchaseStatus) {
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
}

// MarkWebhookProcessed records a handled webhook event id. Returns false if
// the event was already processed.
func (p *Purchase) MarkWebhookProcessed(eventID string) bool {
	for _, id := range p.ProcessedWebhookEventIDs {
		if id == eventID {
			return false
		}
	}
	p.ProcessedWebhookEventIDs = append(p.ProcessedWebhookEventIDs, eventID)
	p.UpdatedAt = time.Now().UTC()
	return true
}
