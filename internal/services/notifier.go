package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scholarline/scholarline-gobackend/internal/channels"
	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

// NotifyOptions configure a single Notify call.
type NotifyOptions struct {
	Priority models.Priority
	Channels []models.ChannelKind
	Metadata map[string]interface{}
	UserID   string
}

// NotifyResult is the aggregated outcome of one dispatch. Success is true
// when at least one channel delivered.
type NotifyResult struct {
	Success           bool
	NotificationID    string
	DeliveredChannels []models.ChannelKind
}

// Notifier fans a notification out across its configured channels. Event
// persistence is best-effort: a store failure is logged and never blocks
// delivery.
type Notifier struct {
	store    store.NotificationStore
	channels map[models.ChannelKind]channels.Channel
	kinds    []models.ChannelKind
}

func NewNotifier(s store.NotificationStore, chs ...channels.Channel) *Notifier {
	n := &Notifier{
		store:    s,
		channels: make(map[models.ChannelKind]channels.Channel, len(chs)),
	}
	for _, ch := range chs {
		n.channels[ch.Kind()] = ch
		n.kinds = append(n.kinds, ch.Kind())
	}
	return n
}

// ConfiguredChannels returns the channel kinds with a registered adapter.
func (s *Notifier) ConfiguredChannels() []models.ChannelKind {
	return s.kinds
}

// Notify builds the notification event, persists it, and dispatches to every
// requested channel concurrently. Channels fail independently: one channel's
// error or panic never cancels its siblings, and the call itself never
// returns an error.
func (s *Notifier) Notify(ctx context.Context, title, message string, opts NotifyOptions) NotifyResult {
	if opts.Priority == "" {
		opts.Priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	n := &models.Notification{
		ID:            uuid.NewString(),
		Title:         title,
		Message:       message,
		Priority:      opts.Priority,
		Channels:      opts.Channels,
		ChannelStatus: make(map[models.ChannelKind]models.DeliveryStatus, len(opts.Channels)),
		Metadata:      opts.Metadata,
		UserID:        opts.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, kind := range opts.Channels {
		n.ChannelStatus[kind] = models.DeliveryPending
	}

	if err := s.store.InsertNotification(ctx, n); err != nil {
		log.Printf("Best-effort persist of notification %s failed, continuing with delivery: %v", n.ID, err)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	outcomes := make(map[models.ChannelKind]bool, len(opts.Channels))

	for _, kind := range opts.Channels {
		ch, ok := s.channels[kind]
		if !ok {
			log.Printf("No adapter configured for channel %s, marking failed", kind)
			mu.Lock()
			outcomes[kind] = false
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(kind models.ChannelKind, ch channels.Channel) {
			defer wg.Done()
			ok := deliver(ctx, ch, n)
			mu.Lock()
			outcomes[kind] = ok
			mu.Unlock()
		}(kind, ch)
	}
	wg.Wait()

	result := NotifyResult{NotificationID: n.ID}
	for _, kind := range opts.Channels {
		if outcomes[kind] {
			n.ChannelStatus[kind] = models.DeliverySent
			result.DeliveredChannels = append(result.DeliveredChannels, kind)
			result.Success = true
		} else {
			n.ChannelStatus[kind] = models.DeliveryFailed
		}
	}

	if err := s.store.UpdateChannelStatus(ctx, n.ID, n.ChannelStatus); err != nil {
		log.Printf("Best-effort persist of delivery outcomes for notification %s failed: %v", n.ID, err)
	}
	return result
}

// deliver isolates a single adapter call. A panicking adapter is recorded as
// a failed channel instead of tearing down the fan-out.
func deliver(ctx context.Context, ch channels.Channel, n *models.Notification) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Channel %s panicked delivering notification %s: %v", ch.Kind(), n.ID, r)
			ok = false
		}
	}()
	return ch.Deliver(ctx, n)
}

// MarkAsRead marks a notification as read: the admin message is the primary
// record, the event's in-app channel status the fallback. It returns false
// only when both updates fail.
func (s *Notifier) MarkAsRead(ctx context.Context, notificationID string) bool {
	err := s.store.MarkAdminMessageRead(ctx, notificationID)
	if err == nil {
		return true
	}
	log.Printf("Failed to mark admin message read for notification %s, falling back to channel status: %v", notificationID, err)

	if err := s.store.SetChannelStatus(ctx, notificationID, models.ChannelInApp, models.DeliveryRead); err != nil {
		log.Printf("Failed to mark in-app channel read for notification %s: %v", notificationID, err)
		return false
	}
	return true
}
