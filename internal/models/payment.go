package models

import (
	"time"
)

// Canonical payment statuses, provider-agnostic.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusResolved   = "resolved"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// validPredecessors maps a target status to the statuses allowed to precede
// it. Providers may skip the processing phase, so pending can move straight
// to a terminal outcome.
var validPredecessors = map[string][]string{
	StatusProcessing: {StatusPending},
	StatusCompleted:  {StatusPending, StatusProcessing},
	StatusFailed:     {StatusPending, StatusProcessing},
	StatusCancelled:  {StatusPending, StatusProcessing},
	StatusResolved:   {StatusCompleted},
	StatusRefunded:   {StatusCompleted},
	StatusPending:    {},
}

// ValidStatus reports whether s is a canonical payment status.
func ValidStatus(s string) bool {
	_, ok := validPredecessors[s]
	return ok
}

// ValidPredecessors returns the statuses a payment may be in before moving to
// target. The target itself is included so that re-applying the current
// status (webhook redelivery) stays a no-op instead of an invalid transition.
func ValidPredecessors(target string) []string {
	preds, ok := validPredecessors[target]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(preds)+1)
	out = append(out, preds...)
	out = append(out, target)
	return out
}

// CanTransition reports whether a payment may move from one status to
// another. Same-status "transitions" are allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return ValidStatus(to)
	}
	for _, p := range validPredecessors[to] {
		if p == from {
			return true
		}
	}
	return false
}

// Payment is one payment attempt and its lifecycle status. Metadata holds
// the raw provider payload for audit and replay.
type Payment struct {
	ID                    string                 `bson:"_id" json:"id"`
	UserID                string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	OrderID               string                 `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Amount                float64                `bson:"amount" json:"amount"`
	Currency              string                 `bson:"currency" json:"currency"`
	PaymentMethod         string                 `bson:"payment_method" json:"payment_method"`
	PaymentProvider       string                 `bson:"payment_provider" json:"payment_provider"`
	TransactionID         string                 `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	ProviderTransactionID string                 `bson:"provider_transaction_id,omitempty" json:"provider_transaction_id,omitempty"`
	Status                string                 `bson:"status" json:"status"`
	Metadata              map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ReceiptURL            string                 `bson:"receipt_url,omitempty" json:"receipt_url,omitempty"`
	CreatedAt             time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time              `bson:"updated_at" json:"updated_at"`
}
