// internal/service/payment_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anquilosaurios/backend-core/internal/audit"
	"github.com/anquilosaurios/backend-core/internal/models"
	"github.com/anquilosaurios/backend-core/internal/payment"
)

// memoryPurchases is an in-memory PurchaseStore for payment service tests.
type memoryPurchases struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]models.Purchase
}

func newMemoryPurchases() *memoryPurchases {
	return &memoryPurchases{purchases: make(map[uuid.UUID]models.Purchase)}
}

func (m *memoryPurchases) Create(_ context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases[p.ID] = *p
	return nil
}

func (m *memoryPurchases) GetByID(_ context.Context, id uuid.UUID) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.purchases[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memoryPurchases) GetByIdempotencyKey(_ context.Context, key string) (*models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.purchases {
		if key != "" && p.IdempotencyKey == key {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memoryPurchases) Update(_ context.Context, p *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases[p.ID] = *p
	return nil
}

// scriptedProvider returns canned charge/refund outcomes and counts calls.
type scriptedProvider struct {
	name          models.ProviderName
	chargeResult  payment.Result
	refundResult  payment.RefundResult
	chargeCalls   int
	refundCalls   int
	lastIntent    payment.Intent
	lastRefundRef string
}

func (p *scriptedProvider) Name() models.ProviderName { return p.name }

func (p *scriptedProvider) Charge(_ context.Context, intent payment.Intent) (payment.Result, error) {
	p.chargeCalls++
	p.lastIntent = intent
	return p.chargeResult, nil
}

func (p *scriptedProvider) Refund(_ context.Context, externalPaymentID string) (payment.RefundResult, error) {
	p.refundCalls++
	p.lastRefundRef = externalPaymentID
	return p.refundResult, nil
}

func newPaymentFixture(t *testing.T, provider *scriptedProvider) (*PaymentService, *memoryPurchases, *memoryStore, *models.User) {
	t.Helper()

	registry := payment.NewRegistry()
	registry.Register(provider)

	purchases := newMemoryPurchases()
	users := newMemoryStore()

	user := models.NewLocalUser("Anna", "a@x.com", "au", "hash")
	require.NoError(t, users.Create(context.Background(), user))

	svc := NewPaymentService(registry, purchases, users, audit.NopRecorder{}, nil)
	return svc, purchases, users, user
}

func TestChargeRecordsPurchase(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success:           true,
			ExternalPaymentID: "pi_123",
			Status:            "succeeded",
		},
	}
	svc, purchases, users, user := newPaymentFixture(t, provider)
	ctx := context.Background()

	purchase, result, err := svc.Charge(ctx, ChargeInput{
		UserID:       user.ID,
		Provider:     models.ProviderStripe,
		Type:         models.PurchaseCosmetic,
		Amount:       9.99,
		Currency:     "usd",
		PaymentToken: "pm_card",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, provider.chargeCalls)
	assert.Equal(t, 9.99, provider.lastIntent.Amount)

	assert.Equal(t, models.PurchaseCompleted, purchase.Status)
	assert.Equal(t, "pi_123", purchase.ExternalPaymentID)
	assert.Equal(t, models.ProviderStripe, purchase.PaymentProviderName)

	stored, err := purchases.GetByID(ctx, purchase.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.PurchaseCompleted, stored.Status)

	owner, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, owner.PurchasesIDs, purchase.ID)
}

func TestChargeDeclinedRecordsFailed(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success: false,
			Status:  "FAILED",
			Message: "card declined",
		},
	}
	svc, purchases, _, user := newPaymentFixture(t, provider)

	purchase, result, err := svc.Charge(context.Background(), ChargeInput{
		UserID:   user.ID,
		Provider: models.ProviderStripe,
		Type:     models.PurchaseCosmetic,
		Amount:   5,
		Currency: "usd",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, models.PurchaseFailed, purchase.Status)

	stored, err := purchases.GetByID(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseFailed, stored.Status)
}

func TestChargeRequiresActionRecordsProcessing(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success:           false,
			RequiresAction:    true,
			ExternalPaymentID: "pi_3ds",
			Status:            "requires_action",
		},
	}
	svc, _, _, user := newPaymentFixture(t, provider)

	purchase, _, err := svc.Charge(context.Background(), ChargeInput{
		UserID:   user.ID,
		Provider: models.ProviderStripe,
		Type:     models.PurchaseSubscription,
		Amount:   20,
		Currency: "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseProcessing, purchase.Status)
}

func TestChargeIdempotencyReplay(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success:           true,
			ExternalPaymentID: "pi_once",
			Status:            "succeeded",
		},
	}
	svc, _, _, user := newPaymentFixture(t, provider)
	ctx := context.Background()

	in := ChargeInput{
		UserID:         user.ID,
		Provider:       models.ProviderStripe,
		Type:           models.PurchaseCosmetic,
		Amount:         9.99,
		Currency:       "usd",
		IdempotencyKey: "order-42",
	}

	first, _, err := svc.Charge(ctx, in)
	require.NoError(t, err)

	second, result, err := svc.Charge(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, result.Success)
	assert.Equal(t, "pi_once", result.ExternalPaymentID)
	assert.Equal(t, 1, provider.chargeCalls, "replay must not contact the provider again")
}

func TestChargeUnknownProvider(t *testing.T) {
	provider := &scriptedProvider{name: models.ProviderStripe}
	svc, _, _, user := newPaymentFixture(t, provider)

	_, _, err := svc.Charge(context.Background(), ChargeInput{
		UserID:   user.ID,
		Provider: models.ProviderPaypal,
		Amount:   1,
		Currency: "usd",
	})
	assert.Error(t, err)
}

func TestChargeUnknownUser(t *testing.T) {
	provider := &scriptedProvider{
		name:         models.ProviderStripe,
		chargeResult: payment.Result{Success: true},
	}
	svc, _, _, _ := newPaymentFixture(t, provider)

	_, _, err := svc.Charge(context.Background(), ChargeInput{
		UserID:   uuid.New(),
		Provider: models.ProviderStripe,
		Amount:   1,
		Currency: "usd",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefundMarksRefunded(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success:           true,
			ExternalPaymentID: "pi_refundable",
			Status:            "succeeded",
		},
		refundResult: payment.RefundResult{Success: true, RefundID: "re_1"},
	}
	svc, purchases, _, user := newPaymentFixture(t, provider)
	ctx := context.Background()

	purchase, _, err := svc.Charge(ctx, ChargeInput{
		UserID:   user.ID,
		Provider: models.ProviderStripe,
		Type:     models.PurchaseCosmetic,
		Amount:   9.99,
		Currency: "usd",
	})
	require.NoError(t, err)

	result, err := svc.Refund(ctx, purchase.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "re_1", result.RefundID)
	assert.Equal(t, "pi_refundable", provider.lastRefundRef)

	stored, err := purchases.GetByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseRefunded, stored.Status)
}

func TestRefundFailureKeepsStatus(t *testing.T) {
	provider := &scriptedProvider{
		name: models.ProviderStripe,
		chargeResult: payment.Result{
			Success:           true,
			ExternalPaymentID: "pi_keep",
			Status:            "succeeded",
		},
		refundResult: payment.RefundResult{Success: false, Message: "already refunded"},
	}
	svc, purchases, _, user := newPaymentFixture(t, provider)
	ctx := context.Background()

	purchase, _, err := svc.Charge(ctx, ChargeInput{
		UserID:   user.ID,
		Provider: models.ProviderStripe,
		Type:     models.PurchaseCosmetic,
		Amount:   9.99,
		Currency: "usd",
	})
	require.NoError(t, err)

	result, err := svc.Refund(ctx, purchase.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)

	stored, err := purchases.GetByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseCompleted, stored.Status)
}

func TestRefundUnknownPurchase(t *testing.T) {
	provider := &scriptedProvider{name: models.ProviderStripe}
	svc, _, _, _ := newPaymentFixture(t, provider)

	_, err := svc.Refund(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}
