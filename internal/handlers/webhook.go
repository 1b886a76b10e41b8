package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/scholarline/scholarline-gobackend/internal/services"
	"github.com/scholarline/scholarline-gobackend/internal/store"
	"github.com/scholarline/scholarline-gobackend/internal/webhook"
)

// WebhookHandler exposes the provider callback endpoints. The only failures
// it reports back to a provider are bad signatures (401) and unparseable
// bodies (400); every other outcome is 200 "OK" so legitimate redeliveries
// of already-processed events do not turn into retry storms.
type WebhookHandler struct {
	reconciler *services.Reconciler
}

func NewWebhookHandler(r *services.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: r}
}

func (h *WebhookHandler) StableLinkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read webhook body")
		return
	}

	signature := r.Header.Get("X-SL-Signature")
	if signature == "" {
		signature = r.Header.Get("X-SL-Signature-Hex")
	}
	h.finish(w, h.reconciler.HandleStableLink(r.Context(), body, signature))
}

func (h *WebhookHandler) CoinbaseWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read webhook body")
		return
	}

	h.finish(w, h.reconciler.HandleCoinbase(r.Context(), body, r.Header.Get("X-CC-Webhook-Signature")))
}

func (h *WebhookHandler) finish(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	case errors.Is(err, webhook.ErrBadSignature):
		writeError(w, http.StatusUnauthorized, "Invalid webhook signature")
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid webhook payload")
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
