package models

import (
	"time"
)

// ChannelKind identifies a notification delivery medium.
type ChannelKind string

const (
	ChannelInApp   ChannelKind = "in-app"
	ChannelEmail   ChannelKind = "email"
	ChannelChatBot ChannelKind = "chat-bot"
)

// DeliveryStatus is the per-channel delivery state of a notification.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliverySent      DeliveryStatus = "sent"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryRead      DeliveryStatus = "read"
)

// Priority of a notification.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Notification is the durable record of one notify() invocation. Every
// requested channel has an entry in ChannelStatus, starting at pending.
type Notification struct {
	ID            string                         `bson:"_id" json:"id"`
	Title         string                         `bson:"title" json:"title"`
	Message       string                         `bson:"message" json:"message"`
	Priority      Priority                       `bson:"priority" json:"priority"`
	Channels      []ChannelKind                  `bson:"channels" json:"channels"`
	ChannelStatus map[ChannelKind]DeliveryStatus `bson:"channel_status" json:"channel_status"`
	Metadata      map[string]interface{}         `bson:"metadata,omitempty" json:"metadata,omitempty"`
	UserID        string                         `bson:"user_id,omitempty" json:"user_id,omitempty"`
	CreatedAt     time.Time                      `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time                      `bson:"updated_at" json:"updated_at"`
}
