package store

import (
	"context"
	"errors"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed field.
	ErrValidation = errors.New("validation failed")
)

// PaymentStore is the durable home of payment records. Implementations are
// injected into handlers and services so tests can substitute fakes.
type PaymentStore interface {
	// Create persists a new payment. The id, amount, currency and payment
	// method are required; missing fields return ErrValidation.
	Create(ctx context.Context, p *models.Payment) (string, error)
	// UpsertByProviderID replaces-or-inserts the record identified by the
	// provider-assigned id, carrying forward fields the caller omitted.
	UpsertByProviderID(ctx context.Context, id string, p *models.Payment) error
	// UpdateStatus applies a status transition conditionally: the write only
	// happens when the current status is a valid predecessor of newStatus.
	// An invalid transition is logged and returns the unchanged record.
	UpdateStatus(ctx context.Context, id, newStatus, providerTxID string, metadata map[string]interface{}) (*models.Payment, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// ListByUser returns the user's payments ordered by created_at descending.
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
}

// NotificationStore persists notification events and the admin/user message
// rows behind the in-app channel.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	// UpdateChannelStatus persists the final per-channel outcome of a
	// dispatch along with a refreshed updated_at.
	UpdateChannelStatus(ctx context.Context, id string, status map[models.ChannelKind]models.DeliveryStatus) error
	// SetChannelStatus updates a single channel's delivery status.
	SetChannelStatus(ctx context.Context, id string, kind models.ChannelKind, status models.DeliveryStatus) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	ListNotifications(ctx context.Context, limit int64) ([]models.Notification, error)

	InsertAdminMessage(ctx context.Context, m *models.AdminMessage) error
	// MarkAdminMessageRead marks the admin message for a notification as
	// read; ErrNotFound when no such message exists.
	MarkAdminMessageRead(ctx context.Context, notificationID string) error
	InsertUserMessage(ctx context.Context, m *models.UserMessage) error
}
