package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

type fakeNotificationStore struct {
	store.NotificationStore

	mu          sync.Mutex
	inserted    []*models.Notification
	finalStatus map[string]map[models.ChannelKind]models.DeliveryStatus
	channelSets map[string]map[models.ChannelKind]models.DeliveryStatus

	insertErr   error
	updateErr   error
	markReadErr error
	setErr      error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		finalStatus: make(map[string]map[models.ChannelKind]models.DeliveryStatus),
		channelSets: make(map[string]map[models.ChannelKind]models.DeliveryStatus),
	}
}

func (f *fakeNotificationStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *n
	cp.ChannelStatus = make(map[models.ChannelKind]models.DeliveryStatus, len(n.ChannelStatus))
	for k, v := range n.ChannelStatus {
		cp.ChannelStatus[k] = v
	}
	f.inserted = append(f.inserted, &cp)
	return nil
}

func (f *fakeNotificationStore) UpdateChannelStatus(ctx context.Context, id string, status map[models.ChannelKind]models.DeliveryStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := make(map[models.ChannelKind]models.DeliveryStatus, len(status))
	for k, v := range status {
		cp[k] = v
	}
	f.finalStatus[id] = cp
	return nil
}

func (f *fakeNotificationStore) SetChannelStatus(ctx context.Context, id string, kind models.ChannelKind, status models.DeliveryStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	if f.channelSets[id] == nil {
		f.channelSets[id] = make(map[models.ChannelKind]models.DeliveryStatus)
	}
	f.channelSets[id][kind] = status
	return nil
}

func (f *fakeNotificationStore) MarkAdminMessageRead(ctx context.Context, notificationID string) error {
	return f.markReadErr
}

type stubChannel struct {
	kind   models.ChannelKind
	ok     bool
	panics bool

	mu    sync.Mutex
	calls int
}

func (c *stubChannel) Kind() models.ChannelKind { return c.kind }

func (c *stubChannel) Deliver(ctx context.Context, n *models.Notification) bool {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panics {
		panic("adapter blew up")
	}
	return c.ok
}

func TestNotifyAllChannelsSucceed(t *testing.T) {
	ns := newFakeNotificationStore()
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	email := &stubChannel{kind: models.ChannelEmail, ok: true}
	n := NewNotifier(ns, inApp, email)

	res := n.Notify(context.Background(), "New Order", "Order #42 received", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelInApp, models.ChannelEmail},
	})

	assert.True(t, res.Success)
	assert.NotEmpty(t, res.NotificationID)
	assert.Equal(t, []models.ChannelKind{models.ChannelInApp, models.ChannelEmail}, res.DeliveredChannels)

	final := ns.finalStatus[res.NotificationID]
	require.NotNil(t, final)
	assert.Equal(t, models.DeliverySent, final[models.ChannelInApp])
	assert.Equal(t, models.DeliverySent, final[models.ChannelEmail])
}

func TestNotifyPartialFailure(t *testing.T) {
	ns := newFakeNotificationStore()
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	email := &stubChannel{kind: models.ChannelEmail, ok: false}
	n := NewNotifier(ns, inApp, email)

	res := n.Notify(context.Background(), "New Order", "...", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelInApp, models.ChannelEmail},
	})

	assert.True(t, res.Success)
	assert.Equal(t, []models.ChannelKind{models.ChannelInApp}, res.DeliveredChannels)
	assert.Equal(t, models.DeliveryFailed, ns.finalStatus[res.NotificationID][models.ChannelEmail])
}

func TestNotifyPanickingChannelIsIsolated(t *testing.T) {
	ns := newFakeNotificationStore()
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	bot := &stubChannel{kind: models.ChannelChatBot, panics: true}
	n := NewNotifier(ns, inApp, bot)

	var res NotifyResult
	require.NotPanics(t, func() {
		res = n.Notify(context.Background(), "t", "m", NotifyOptions{
			Channels: []models.ChannelKind{models.ChannelInApp, models.ChannelChatBot},
		})
	})

	assert.True(t, res.Success)
	assert.Equal(t, []models.ChannelKind{models.ChannelInApp}, res.DeliveredChannels)
	assert.Equal(t, models.DeliveryFailed, ns.finalStatus[res.NotificationID][models.ChannelChatBot])
	assert.Equal(t, 1, bot.calls)
}

func TestNotifyAllChannelsFail(t *testing.T) {
	ns := newFakeNotificationStore()
	email := &stubChannel{kind: models.ChannelEmail, ok: false}
	n := NewNotifier(ns, email)

	res := n.Notify(context.Background(), "t", "m", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelEmail},
	})

	assert.False(t, res.Success)
	assert.Empty(t, res.DeliveredChannels)
}

func TestNotifyStatusKeysMatchRequestedChannels(t *testing.T) {
	ns := newFakeNotificationStore()
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	n := NewNotifier(ns, inApp)

	res := n.Notify(context.Background(), "t", "m", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelInApp, models.ChannelChatBot},
	})

	// chat-bot has no adapter registered: recorded failed, not dropped.
	final := ns.finalStatus[res.NotificationID]
	require.Len(t, final, 2)
	assert.Equal(t, models.DeliverySent, final[models.ChannelInApp])
	assert.Equal(t, models.DeliveryFailed, final[models.ChannelChatBot])

	require.Len(t, ns.inserted, 1)
	assert.Len(t, ns.inserted[0].ChannelStatus, 2)
	assert.Equal(t, models.DeliveryPending, ns.inserted[0].ChannelStatus[models.ChannelInApp])
}

func TestNotifyPersistenceFailureDoesNotAbortDelivery(t *testing.T) {
	ns := newFakeNotificationStore()
	ns.insertErr = errors.New("mongo down")
	ns.updateErr = errors.New("mongo still down")
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	n := NewNotifier(ns, inApp)

	res := n.Notify(context.Background(), "t", "m", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelInApp},
	})

	assert.True(t, res.Success)
	assert.Equal(t, 1, inApp.calls)
}

func TestNotifyDefaultsPriority(t *testing.T) {
	ns := newFakeNotificationStore()
	inApp := &stubChannel{kind: models.ChannelInApp, ok: true}
	n := NewNotifier(ns, inApp)

	n.Notify(context.Background(), "t", "m", NotifyOptions{
		Channels: []models.ChannelKind{models.ChannelInApp},
	})

	require.Len(t, ns.inserted, 1)
	assert.Equal(t, models.PriorityMedium, ns.inserted[0].Priority)
}

func TestMarkAsRead(t *testing.T) {
	t.Run("admin message is primary", func(t *testing.T) {
		ns := newFakeNotificationStore()
		n := NewNotifier(ns)
		assert.True(t, n.MarkAsRead(context.Background(), "n1"))
		assert.Empty(t, ns.channelSets)
	})

	t.Run("falls back to in-app channel status", func(t *testing.T) {
		ns := newFakeNotificationStore()
		ns.markReadErr = store.ErrNotFound
		n := NewNotifier(ns)
		assert.True(t, n.MarkAsRead(context.Background(), "n1"))
		assert.Equal(t, models.DeliveryRead, ns.channelSets["n1"][models.ChannelInApp])
	})

	t.Run("false when both fail", func(t *testing.T) {
		ns := newFakeNotificationStore()
		ns.markReadErr = store.ErrNotFound
		ns.setErr = errors.New("mongo down")
		n := NewNotifier(ns)
		assert.False(t, n.MarkAsRead(context.Background(), "n1"))
	})
}
