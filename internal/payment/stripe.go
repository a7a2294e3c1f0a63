// internal/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"strings"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// StripeProvider charges and refunds through the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider with its own API client bound to the
// given secret key.
func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) Name() models.ProviderName {
	return models.ProviderStripe
}

// Charge creates and confirms a PaymentIntent. Stripe-side rejections (card
// declined and the like) map to Result{Success: false}; transport failures
// propagate as errors.
func (p *StripeProvider) Charge(ctx context.Context, intent Intent) (Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(intent.Amount * 100)),
		Currency:      stripe.String(strings.ToLower(intent.Currency)),
		PaymentMethod: stripe.String(intent.PaymentToken),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx
	if intent.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(intent.IdempotencyKey)
	}
	for k, v := range intent.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return Result{
				Success:     false,
				Status:      "FAILED",
				Message:     stripeErr.Msg,
				ProviderRaw: stripeErr.Error(),
			}, nil
		}
		return Result{}, err
	}

	var raw string
	if pi.LastResponse != nil {
		raw = string(pi.LastResponse.RawJSON)
	}

	return Result{
		Success:           pi.Status == stripe.PaymentIntentStatusSucceeded,
		ExternalPaymentID: pi.ID,
		Status:            string(pi.Status),
		Message:           "Payment processed via Stripe",
		RequiresAction:    pi.Status == stripe.PaymentIntentStatusRequiresAction,
		ProviderRaw:       raw,
	}, nil
}

// Refund refunds the full PaymentIntent.
func (p *StripeProvider) Refund(ctx context.Context, externalPaymentID string) (RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(externalPaymentID),
	}
	params.Context = ctx

	refund, err := p.api.Refunds.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return RefundResult{Success: false, Message: stripeErr.Msg}, nil
		}
		return RefundResult{}, err
	}

	return RefundResult{
		Success:  refund.Status == stripe.RefundStatusSucceeded,
		RefundID: refund.ID,
		Message:  "Refund processed via Stripe",
	}, nil
}
