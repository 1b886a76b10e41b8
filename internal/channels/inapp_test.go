package channels

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

type fakeMessageStore struct {
	store.NotificationStore

	adminErr error
	userErr  error

	adminMessages []*models.AdminMessage
	userMessages  []*models.UserMessage
}

func (f *fakeMessageStore) InsertAdminMessage(ctx context.Context, m *models.AdminMessage) error {
	if f.adminErr != nil {
		return f.adminErr
	}
	f.adminMessages = append(f.adminMessages, m)
	return nil
}

func (f *fakeMessageStore) InsertUserMessage(ctx context.Context, m *models.UserMessage) error {
	if f.userErr != nil {
		return f.userErr
	}
	f.userMessages = append(f.userMessages, m)
	return nil
}

func TestInAppDeliverWritesAdminMessage(t *testing.T) {
	fs := &fakeMessageStore{}
	c := NewInApp(fs)

	assert.True(t, c.Deliver(context.Background(), testNotification()))
	require.Len(t, fs.adminMessages, 1)
	assert.Equal(t, "n1", fs.adminMessages[0].NotificationID)
	assert.Equal(t, "Payment completed", fs.adminMessages[0].Title)
	assert.False(t, fs.adminMessages[0].Read)
	assert.Empty(t, fs.userMessages)
}

func TestInAppFallsBackToUserMessage(t *testing.T) {
	fs := &fakeMessageStore{adminErr: errors.New("mongo down")}
	c := NewInApp(fs)

	n := testNotification()
	n.UserID = "u1"
	assert.True(t, c.Deliver(context.Background(), n))

	require.Len(t, fs.userMessages, 1)
	assert.Equal(t, "u1", fs.userMessages[0].UserID)
	assert.Contains(t, fs.userMessages[0].Content, "[HIGH] Payment completed")
}

func TestInAppFailsWithoutUserFallback(t *testing.T) {
	fs := &fakeMessageStore{adminErr: errors.New("mongo down")}
	c := NewInApp(fs)

	assert.False(t, c.Deliver(context.Background(), testNotification()))
	assert.Empty(t, fs.userMessages)
}

func TestInAppFailsWhenBothWritesFail(t *testing.T) {
	fs := &fakeMessageStore{
		adminErr: errors.New("mongo down"),
		userErr:  errors.New("mongo down"),
	}
	c := NewInApp(fs)

	n := testNotification()
	n.UserID = "u1"
	assert.False(t, c.Deliver(context.Background(), n))
}
