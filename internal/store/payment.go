package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarline/scholarline-gobackend/internal/models"
)

// MongoPaymentStore implements PaymentStore on the payments collection.
type MongoPaymentStore struct {
	col *mongo.Collection
}

func NewMongoPaymentStore(db *mongo.Database) *MongoPaymentStore {
	return &MongoPaymentStore{col: db.Collection("payments")}
}

// EnsureIndexes creates the indexes the list and webhook lookups rely on.
func (s *MongoPaymentStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create payment indexes: %v", err)
	}
	return nil
}

func (s *MongoPaymentStore) Create(ctx context.Context, p *models.Payment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ID == "" {
		return "", fmt.Errorf("%w: id is required", ErrValidation)
	}
	if p.Amount <= 0 {
		return "", fmt.Errorf("%w: amount is required", ErrValidation)
	}
	if p.Currency == "" {
		return "", fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if p.PaymentMethod == "" {
		return "", fmt.Errorf("%w: payment_method is required", ErrValidation)
	}

	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if !models.ValidStatus(p.Status) {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, p.Status)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("failed to save payment: %v", err)
	}
	return p.ID, nil
}

// UpsertByProviderID re-reads the existing record and merges the incoming
// fields over it before replacing, so a partial upsert never drops fields the
// caller did not supply.
func (s *MongoPaymentStore) UpsertByProviderID(ctx context.Context, id string, p *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if id == "" {
		return fmt.Errorf("%w: provider id is required", ErrValidation)
	}

	now := time.Now().UTC()
	merged := *p
	merged.ID = id

	var existing models.Payment
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	switch {
	case err == mongo.ErrNoDocuments:
		if merged.Status == "" {
			merged.Status = models.StatusPending
		}
		merged.CreatedAt = now
		merged.UpdatedAt = now
	case err != nil:
		return fmt.Errorf("failed to fetch payment %s: %v", id, err)
	default:
		mergeMissing(&merged, &existing)
		merged.CreatedAt = existing.CreatedAt
		merged.UpdatedAt = now
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, &merged, opts); err != nil {
		return fmt.Errorf("failed to upsert payment %s: %v", id, err)
	}
	return nil
}

// mergeMissing fills zero-valued fields of dst from prev.
func mergeMissing(dst, prev *models.Payment) {
	if dst.UserID == "" {
		dst.UserID = prev.UserID
	}
	if dst.OrderID == "" {
		dst.OrderID = prev.OrderID
	}
	if dst.Amount == 0 {
		dst.Amount = prev.Amount
	}
	if dst.Currency == "" {
		dst.Currency = prev.Currency
	}
	if dst.PaymentMethod == "" {
		dst.PaymentMethod = prev.PaymentMethod
	}
	if dst.PaymentProvider == "" {
		dst.PaymentProvider = prev.PaymentProvider
	}
	if dst.TransactionID == "" {
		dst.TransactionID = prev.TransactionID
	}
	if dst.ProviderTransactionID == "" {
		dst.ProviderTransactionID = prev.ProviderTransactionID
	}
	if dst.Status == "" {
		dst.Status = prev.Status
	}
	if dst.Metadata == nil {
		dst.Metadata = prev.Metadata
	}
	if dst.ReceiptURL == "" {
		dst.ReceiptURL = prev.ReceiptURL
	}
}

// UpdateStatus performs a conditional update restricted to valid predecessor
// statuses, so concurrent or duplicate webhook deliveries cannot clobber a
// later state with an earlier one.
func (s *MongoPaymentStore) UpdateStatus(ctx context.Context, id, newStatus, providerTxID string, metadata map[string]interface{}) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !models.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, newStatus)
	}

	set := bson.M{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	if providerTxID != "" {
		set["provider_transaction_id"] = providerTxID
	}
	if metadata != nil {
		set["metadata"] = metadata
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": models.ValidPredecessors(newStatus)},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment %s: %v", id, err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		log.Printf("Ignoring invalid status transition for payment %s: %s -> %s", id, current.Status, newStatus)
	}
	return current, nil
}

func (s *MongoPaymentStore) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment %s: %v", id, err)
	}
	return &payment, nil
}

func (s *MongoPaymentStore) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments for user %s: %v", userID, err)
	}
	defer cur.Close(ctx)

	var payments []models.Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %v", err)
	}
	return payments, nil
}
