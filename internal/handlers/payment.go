package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/models"
	"github.com/anquilosaurios/backend-core/internal/payment"
	"github.com/anquilosaurios/backend-core/internal/service"
)

// PaymentHandlers maps the charge/refund endpoints onto the payment service.
type PaymentHandlers struct {
	payments *service.PaymentService
	logger   *logrus.Logger
}

func NewPaymentHandlers(payments *service.PaymentService, logger *logrus.Logger) *PaymentHandlers {
	if logger == nil {
		logger = logrus.New()
	}
	return &PaymentHandlers{payments: payments, logger: logger}
}

type chargeResponse struct {
	Purchase *models.Purchase `json:"purchase"`
	Result   payment.Result   `json:"result"`
}

// Charge runs a charge through the named provider.
func (h *PaymentHandlers) Charge(w http.ResponseWriter, r *http.Request) {
	var req service.ChargeInput
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	purchase, result, err := h.payments.Charge(r.Context(), req)
	if errors.Is(err, service.ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("charge failed")
		http.Error(w, "payment failed", http.StatusBadGateway)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, chargeResponse{Purchase: purchase, Result: result})
}

// Refund refunds a recorded purchase.
func (h *PaymentHandlers) Refund(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid purchase id", http.StatusBadRequest)
		return
	}

	result, err := h.payments.Refund(r.Context(), purchaseID)
	if errors.Is(err, service.ErrPurchaseNotFound) {
		http.Error(w, "purchase not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("refund failed")
		http.Error(w, "refund failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
