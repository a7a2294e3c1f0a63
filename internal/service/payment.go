// internal/service/payment.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/audit"
	"github.com/anquilosaurios/backend-core/internal/models"
	"github.com/anquilosaurios/backend-core/internal/payment"
)

// ErrPurchaseNotFound is returned when a referenced purchase id does not
// resolve to a stored purchase.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseStore is the persistence surface the payment service operates on.
type PurchaseStore interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Purchase, error)
	Update(ctx context.Context, purchase *models.Purchase) error
}

// ChargeInput describes a purchase to charge against a named provider.
type ChargeInput struct {
	UserID         uuid.UUID           `json:"user_id"`
	Provider       models.ProviderName `json:"provider"`
	Type           models.PurchaseType `json:"type"`
	Amount         float64             `json:"amount"`
	Currency       string              `json:"currency"`
	PaymentToken   string              `json:"payment_token"`
	IdempotencyKey string              `json:"idempotency_key,omitempty"`
	Metadata       map[string]string   `json:"metadata,omitempty"`
	DataJson       string              `json:"data_json,omitempty"`
}

// PaymentService records purchases charged through the provider registry
// and links them to the purchasing user.
type PaymentService struct {
	providers *payment.Registry
	purchases PurchaseStore
	users     UserStore
	auditor   audit.Recorder
	logger    *logrus.Logger
}

func NewPaymentService(providers *payment.Registry, purchases PurchaseStore, users UserStore, auditor audit.Recorder, logger *logrus.Logger) *PaymentService {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &PaymentService{
		providers: providers,
		purchases: purchases,
		users:     users,
		auditor:   auditor,
		logger:    logger,
	}
}

// Charge runs a charge against the named provider and records the purchase.
// A repeated idempotency key returns the previously recorded purchase
// without contacting the provider again.
func (s *PaymentService) Charge(ctx context.Context, in ChargeInput) (*models.Purchase, payment.Result, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.purchases.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, payment.Result{}, err
		}
		if existing != nil {
			return existing, payment.Result{
				Success:           existing.Status == models.PurchaseCompleted,
				ExternalPaymentID: existing.ExternalPaymentID,
				Status:            string(existing.Status),
				Message:           "duplicate idempotency key; returning recorded purchase",
			}, nil
		}
	}

	provider, err := s.providers.Get(in.Provider)
	if err != nil {
		return nil, payment.Result{}, err
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, payment.Result{}, err
	}
	if user == nil {
		return nil, payment.Result{}, ErrUserNotFound
	}

	purchase := models.NewPurchase(in.Type, in.Provider, in.Amount, in.Currency, in.IdempotencyKey, in.DataJson)

	result, err := provider.Charge(ctx, payment.Intent{
		PurchaseID:     purchase.ID,
		Amount:         in.Amount,
		Currency:       in.Currency,
		PaymentToken:   in.PaymentToken,
		IdempotencyKey: in.IdempotencyKey,
		Metadata:       in.Metadata,
	})
	if err != nil {
		return nil, payment.Result{}, fmt.Errorf("charge against %s failed: %w", in.Provider, err)
	}

	purchase.ExternalPaymentID = result.ExternalPaymentID
	switch {
	case result.Success:
		purchase.SetStatus(models.PurchaseCompleted)
	case result.RequiresAction:
		purchase.SetStatus(models.PurchaseProcessing)
	default:
		purchase.SetStatus(models.PurchaseFailed)
	}

	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, payment.Result{}, err
	}

	user.AddPurchaseID(purchase.ID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, payment.Result{}, err
	}

	if err := s.auditor.Record(ctx, audit.ActionPurchase, user.ID, map[string]string{
		"purchase_id": purchase.ID.String(),
		"provider":    string(in.Provider),
		"status":      string(purchase.Status),
	}); err != nil {
		s.logger.WithError(err).Warn("failed to record purchase audit event")
	}

	return purchase, result, nil
}

// Refund refunds a recorded purchase through the provider that charged it
// and marks it REFUNDED on success.
func (s *PaymentService) Refund(ctx context.Context, purchaseID uuid.UUID) (payment.RefundResult, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return payment.RefundResult{}, err
	}
	if purchase == nil {
		return payment.RefundResult{}, ErrPurchaseNotFound
	}

	provider, err := s.providers.Get(purchase.PaymentProviderName)
	if err != nil {
		return payment.RefundResult{}, err
	}

	result, err := provider.Refund(ctx, purchase.ExternalPaymentID)
	if err != nil {
		return payment.RefundResult{}, fmt.Errorf("refund against %s failed: %w", purchase.PaymentProviderName, err)
	}

	if result.Success {
		purchase.SetStatus(models.PurchaseRefunded)
		if err := s.purchases.Update(ctx, purchase); err != nil {
			return result, err
		}
	}

	return result, nil
}
