package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

// MongoNotificationStore implements NotificationStore on the notifications,
// admin_messages and user_messages collections.
type MongoNotificationStore struct {
	notifications *mongo.Collection
	adminMessages *mongo.Collection
	userMessages  *mongo.Collection
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{
		notifications: db.Collection("notifications"),
		adminMessages: db.Collection("admin_messages"),
		userMessages:  db.Collection("user_messages"),
	}
}

func (s *MongoNotificationStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification %s: %v", n.ID, err)
	}
	return nil
}

func (s *MongoNotificationStore) UpdateChannelStatus(ctx context.Context, id string, status map[models.ChannelKind]models.DeliveryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"channel_status": status,
		"updated_at":     time.Now().UTC(),
	}}
	res, err := s.notifications.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %v", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoNotificationStore) SetChannelStatus(ctx context.Context, id string, kind models.ChannelKind, status models.DeliveryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"channel_status." + string(kind): status,
		"updated_at":                     time.Now().UTC(),
	}}
	res, err := s.notifications.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %v", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoNotificationStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n models.Notification
	if err := s.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification %s: %v", id, err)
	}
	return &n, nil
}

func (s *MongoNotificationStore) ListNotifications(ctx context.Context, limit int64) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.notifications.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cur.Close(ctx)

	var notifications []models.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, nil
}

func (s *MongoNotificationStore) InsertAdminMessage(ctx context.Context, m *models.AdminMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.adminMessages.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to save admin message: %v", err)
	}
	return nil
}

func (s *MongoNotificationStore) MarkAdminMessageRead(ctx context.Context, notificationID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"read":       true,
		"updated_at": time.Now().UTC(),
	}}
	res, err := s.adminMessages.UpdateOne(ctx, bson.M{"notification_id": notificationID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark admin message read for notification %s: %v", notificationID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoNotificationStore) InsertUserMessage(ctx context.Context, m *models.UserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.userMessages.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to save user message: %v", err)
	}
	return nil
}
