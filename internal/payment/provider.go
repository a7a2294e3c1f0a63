// internal/payment/provider.go
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// Intent is a request to charge a purchase against a provider.
type Intent struct {
	PurchaseID     uuid.UUID         `json:"purchase_id"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	PaymentToken   string            `json:"payment_token"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Result is the structured outcome of a charge attempt. Provider rejections
// surface here with Success=false; transport failures are returned as errors
// by Charge instead.
type Result struct {
	Success           bool   `json:"success"`
	ExternalPaymentID string `json:"external_payment_id"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	RequiresAction    bool   `json:"requires_action"`
	ProviderRaw       string `json:"provider_raw,omitempty"`
}

// RefundResult is the structured outcome of a refund attempt.
type RefundResult struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refund_id"`
	Message  string `json:"message"`
}

// Provider is a payment collaborator capable of charging and refunding.
type Provider interface {
	Name() models.ProviderName
	Charge(ctx context.Context, intent Intent) (Result, error)
	Refund(ctx context.Context, externalPaymentID string) (RefundResult, error)
}

// Registry holds the providers enabled by configuration, keyed by their
// enum name. Selection is an explicit lookup; no runtime type inspection.
type Registry struct {
	providers map[models.ProviderName]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[models.ProviderName]Provider)}
}

// Register adds a provider under its own name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get resolves a provider by name, erroring when it was not registered.
func (r *Registry) Get(name models.ProviderName) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("payment provider %q is not configured", name)
	}
	return p, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []models.ProviderName {
	names := make([]models.ProviderName, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
