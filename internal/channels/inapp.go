package channels

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/scholarline/scholarline-gobackend/internal/models"
	"github.com/scholarline/scholarline-gobackend/internal/store"
)

// InApp writes the notification into the admin-dashboard inbox. When that
// write fails and the notification carries a user id, it falls back to a
// formatted per-user message so the event is not lost entirely.
type InApp struct {
	store store.NotificationStore
}

func NewInApp(s store.NotificationStore) *InApp {
	return &InApp{store: s}
}

func (c *InApp) Kind() models.ChannelKind {
	return models.ChannelInApp
}

func (c *InApp) Deliver(ctx context.Context, n *models.Notification) bool {
	now := time.Now().UTC()
	msg := &models.AdminMessage{
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Priority:       n.Priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := c.store.InsertAdminMessage(ctx, msg)
	if err == nil {
		return true
	}
	log.Printf("Failed to save admin message for notification %s: %v", n.ID, err)

	if n.UserID == "" {
		return false
	}
	fallback := &models.UserMessage{
		UserID:    n.UserID,
		Content:   fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(n.Priority)), n.Title, n.Message),
		CreatedAt: now,
	}
	if err := c.store.InsertUserMessage(ctx, fallback); err != nil {
		log.Printf("Failed to save fallback user message for notification %s: %v", n.ID, err)
		return false
	}
	return true
}
