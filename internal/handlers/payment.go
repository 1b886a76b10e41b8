package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/services"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

// ChargeCreator is the outbound StableLink surface the create proxy needs.
type ChargeCreator interface {
	CreateCharge(ctx context.Context, body []byte) (*services.ChargeResponse, []byte, error)
}

type PaymentHandler struct {
	store      store.PaymentStore
	stablelink ChargeCreator
}

func NewPaymentHandler(s store.PaymentStore, stablelink ChargeCreator) *PaymentHandler {
	return &PaymentHandler{store: s, stablelink: stablelink}
}

type paymentRequest struct {
	ID                    string                 `json:"id"`
	UserID                string                 `json:"user_id"`
	OrderID               string                 `json:"order_id"`
	Amount                float64                `json:"amount"`
	Currency              string                 `json:"currency"`
	PaymentMethod         string                 `json:"payment_method"`
	PaymentProvider       string                 `json:"payment_provider"`
	TransactionID         string                 `json:"transaction_id"`
	ProviderTransactionID string                 `json:"provider_transaction_id"`
	Status                string                 `json:"status"`
	Metadata              map[string]interface{} `json:"metadata"`
	ReceiptURL            string                 `json:"receipt_url"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment := &models.Payment{
		ID:                    req.ID,
		UserID:                req.UserID,
		OrderID:               req.OrderID,
		Amount:                req.Amount,
		Currency:              req.Currency,
		PaymentMethod:         req.PaymentMethod,
		PaymentProvider:       req.PaymentProvider,
		TransactionID:         req.TransactionID,
		ProviderTransactionID: req.ProviderTransactionID,
		Status:                req.Status,
		Metadata:              req.Metadata,
		ReceiptURL:            req.ReceiptURL,
		CreatedAt:             req.CreatedAt,
		UpdatedAt:             req.UpdatedAt,
	}

	id, err := h.store.Create(r.Context(), payment)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Failed to create payment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"paymentId": id,
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["id"]

	payment, err := h.store.GetByID(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Payment not found")
			return
		}
		log.Printf("Failed to fetch payment %s: %v", paymentID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"payment": payment,
	})
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["id"]

	var req struct {
		Status                string                 `json:"status"`
		ProviderTransactionID string                 `json:"provider_transaction_id"`
		Metadata              map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	payment, err := h.store.UpdateStatus(r.Context(), paymentID, req.Status, req.ProviderTransactionID, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Payment not found")
		case errors.Is(err, store.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Failed to update payment %s: %v", paymentID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"payment": payment,
	})
}

func (h *PaymentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	payments, err := h.store.ListByUser(r.Context(), req.UserID)
	if err != nil {
		log.Printf("Failed to fetch payments for user %s: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"payments": payments,
	})
}

// StableLinkCreate proxies charge creation so the secret API key stays
// server-side, then upserts a shadow payment record keyed by the
// provider-assigned charge id. The provider response body is relayed as-is.
func (h *PaymentHandler) StableLinkCreate(w http.ResponseWriter, r *http.Request) {
	if h.stablelink == nil {
		writeError(w, http.StatusBadGateway, "StableLink is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	charge, respBody, err := h.stablelink.CreateCharge(r.Context(), body)
	if err != nil {
		log.Printf("StableLink charge creation failed: %v", err)
		if len(respBody) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write(respBody)
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to create StableLink charge")
		return
	}

	var req struct {
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		UserID        string  `json:"user_id"`
		OrderID       string  `json:"order_id"`
		PaymentMethod string  `json:"payment_method"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("Failed to decode charge request for shadow record: %v", err)
	}

	status := charge.Status
	if !models.ValidStatus(status) {
		status = models.StatusPending
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal(respBody, &metadata); err != nil {
		log.Printf("Failed to decode charge response for shadow record: %v", err)
	}

	shadow := &models.Payment{
		UserID:          req.UserID,
		OrderID:         req.OrderID,
		Amount:          firstNonZero(charge.Amount, req.Amount),
		Currency:        firstNonEmpty(charge.Currency, req.Currency),
		PaymentMethod:   firstNonEmpty(req.PaymentMethod, "crypto"),
		PaymentProvider: "stablelink",
		Status:          status,
		Metadata:        metadata,
	}
	if err := h.store.UpsertByProviderID(r.Context(), charge.ID, shadow); err != nil {
		log.Printf("Failed to upsert shadow payment %s: %v", charge.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to persist payment record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(respBody)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
