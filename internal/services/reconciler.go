package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/store"
	"github.com/scholarline/scholarline-gobackend/internal/webhook"
)

// Provider event vocabularies mapped to canonical statuses.
var (
	stableLinkEvents = map[string]string{
		"payment.completed": models.StatusCompleted,
		"payment.failed":    models.StatusFailed,
		"payment.cancelled": models.StatusCancelled,
	}
	coinbaseEvents = map[string]string{
		"charge:confirmed": models.StatusCompleted,
		"charge:resolved":  models.StatusResolved,
	}
)

// Reconciler consumes verified provider webhooks and applies the resulting
// status transitions. Signature failures and unparseable bodies are the only
// errors it surfaces; everything after verification is swallowed so provider
// redelivery storms never build up behind a transient failure.
type Reconciler struct {
	store    store.PaymentStore
	verifier webhook.Verifier
	notifier *Notifier

	stableLinkSecret string
	coinbaseSecret   string
}

func NewReconciler(s store.PaymentStore, v webhook.Verifier, n *Notifier, stableLinkSecret, coinbaseSecret string) *Reconciler {
	return &Reconciler{
		store:            s,
		verifier:         v,
		notifier:         n,
		stableLinkSecret: stableLinkSecret,
		coinbaseSecret:   coinbaseSecret,
	}
}

// HandleStableLink processes a StableLink webhook. The event type may arrive
// as top-level "type" or nested "event.type"; the payment id is resolved from
// data.id, then data.paymentId, then data.payment_id.
func (r *Reconciler) HandleStableLink(ctx context.Context, body []byte, signature string) error {
	if err := r.verifier.Verify(webhook.ProviderStableLink, body, signature, r.stableLinkSecret); err != nil {
		return err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: invalid webhook payload", store.ErrValidation)
	}

	eventType, data := unwrapEvent(payload)
	status, ok := stableLinkEvents[eventType]
	if !ok {
		log.Printf("Unhandled StableLink webhook event type: %s", eventType)
		return nil
	}

	paymentID := firstString(data, "id", "paymentId", "payment_id")
	if paymentID == "" {
		log.Printf("StableLink webhook event %s carries no payment id, ignoring", eventType)
		return nil
	}

	txID := firstString(data, "transaction_hash", "transaction_id")
	r.apply(ctx, webhook.ProviderStableLink, paymentID, status, txID, payload)
	return nil
}

// HandleCoinbase processes a Coinbase Commerce webhook with body
// {event: {type, data}}.
func (r *Reconciler) HandleCoinbase(ctx context.Context, body []byte, signature string) error {
	if err := r.verifier.Verify(webhook.ProviderCoinbase, body, signature, r.coinbaseSecret); err != nil {
		return err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: invalid webhook payload", store.ErrValidation)
	}

	eventType, data := unwrapEvent(payload)
	status, ok := coinbaseEvents[eventType]
	if !ok {
		log.Printf("Unhandled Coinbase webhook event type: %s", eventType)
		return nil
	}

	chargeID := firstString(data, "id", "code")
	if chargeID == "" {
		log.Printf("Coinbase webhook event %s carries no charge id, ignoring", eventType)
		return nil
	}

	r.apply(ctx, webhook.ProviderCoinbase, chargeID, status, "", payload)
	return nil
}

// apply looks the payment up and applies the canonical status. A webhook for
// an unknown id is a silent no-op: the record may not be persisted yet, or
// was already pruned, and failing the HTTP call would only trigger provider
// retries.
func (r *Reconciler) apply(ctx context.Context, provider, paymentID, status, txID string, raw map[string]interface{}) {
	payment, err := r.store.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Webhook from %s references unknown payment %s, ignoring", provider, paymentID)
			return
		}
		log.Printf("Failed to fetch payment %s for %s webhook: %v", paymentID, provider, err)
		return
	}

	updated, err := r.store.UpdateStatus(ctx, payment.ID, status, txID, raw)
	if err != nil {
		log.Printf("Failed to update payment %s from %s webhook: %v", paymentID, provider, err)
		return
	}
	log.Printf("Payment %s reconciled to %s via %s webhook", updated.ID, updated.Status, provider)

	if r.notifier == nil {
		return
	}
	priority := models.PriorityMedium
	if status == models.StatusFailed {
		priority = models.PriorityHigh
	}
	r.notifier.Notify(ctx, fmt.Sprintf("Payment %s", status),
		fmt.Sprintf("Payment %s (%.2f %s) is now %s.", updated.ID, updated.Amount, updated.Currency, status),
		NotifyOptions{
			Priority: priority,
			Channels: r.notifier.ConfiguredChannels(),
			Metadata: map[string]interface{}{
				"payment_id": updated.ID,
				"provider":   provider,
			},
			UserID: updated.UserID,
		})
}

// unwrapEvent returns the event type and data object, accepting both the
// flat {type, data} and nested {event: {type, data}} shapes.
func unwrapEvent(payload map[string]interface{}) (string, map[string]interface{}) {
	eventType, _ := payload["type"].(string)
	data, _ := payload["data"].(map[string]interface{})

	if event, ok := payload["event"].(map[string]interface{}); ok {
		if eventType == "" {
			eventType, _ = event["type"].(string)
		}
		if data == nil {
			data, _ = event["data"].(map[string]interface{})
		}
	}
	return eventType, data
}

// firstString returns the first non-empty string value among keys, in order.
func firstString(data map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
