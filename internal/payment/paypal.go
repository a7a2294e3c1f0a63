// internal/payment/paypal.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// SandboxBaseURL is the PayPal REST endpoint used unless overridden.
const SandboxBaseURL = "https://api-m.sandbox.paypal.com"

// PaypalProvider charges and refunds through the PayPal Orders API. Each
// call fetches a client-credentials access token; PayPal tokens are
// cacheable but a fresh fetch keeps the flow stateless.
type PaypalProvider struct {
	clientID string
	secret   string
	baseURL  string
	http     *http.Client
}

// NewPaypalProvider builds a provider against the sandbox endpoint.
func NewPaypalProvider(clientID, secret string) *PaypalProvider {
	return NewPaypalProviderWithBaseURL(clientID, secret, SandboxBaseURL)
}

// NewPaypalProviderWithBaseURL allows pointing the provider at a different
// endpoint, primarily for tests.
func NewPaypalProviderWithBaseURL(clientID, secret, baseURL string) *PaypalProvider {
	return &PaypalProvider{
		clientID: clientID,
		secret:   secret,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PaypalProvider) Name() models.ProviderName {
	return models.ProviderPaypal
}

func (p *PaypalProvider) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode paypal token response: %w", err)
	}
	return body.AccessToken, nil
}

// Charge creates a CAPTURE order for the intent. A non-success HTTP status
// from PayPal becomes Result{Success: false}; transport failures propagate.
func (p *PaypalProvider) Charge(ctx context.Context, intent Intent) (Result, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return Result{}, err
	}

	order := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": intent.Currency,
					"value":         fmt.Sprintf("%.2f", intent.Amount),
				},
				"custom_id": intent.PurchaseID.String(),
			},
		},
		"application_context": map[string]string{
			"brand_name":  "Aquilosaurios",
			"user_action": "PAY_NOW",
		},
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("paypal order request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read paypal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{
			Success:     false,
			Status:      "FAILED",
			Message:     "PayPal payment failed",
			ProviderRaw: string(raw),
		}, nil
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Result{}, fmt.Errorf("failed to decode paypal order response: %w", err)
	}

	return Result{
		Success:           true,
		ExternalPaymentID: body.ID,
		Status:            "CREATED",
		Message:           "Payment order created via PayPal",
		ProviderRaw:       string(raw),
	}, nil
}

// Refund refunds a captured payment by its external id.
func (p *PaypalProvider) Refund(ctx context.Context, externalPaymentID string) (RefundResult, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return RefundResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v2/payments/captures/%s/refund", p.baseURL, externalPaymentID), nil)
	if err != nil {
		return RefundResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return RefundResult{}, fmt.Errorf("paypal refund request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return RefundResult{}, fmt.Errorf("failed to read paypal refund response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RefundResult{Success: false, Message: "PayPal refund failed"}, nil
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return RefundResult{}, fmt.Errorf("failed to decode paypal refund response: %w", err)
	}

	return RefundResult{
		Success:  true,
		RefundID: body.ID,
		Message:  "Refund processed successfully via PayPal",
	}, nil
}
