package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const subscriptionsCollection = "subscriptions"

type subscriptionDoc struct {
	ID           string     `bson:"_id"`
	UserID       string     `bson:"user_id"`
	PlanID       string     `bson:"plan_id"`
	ExternalID   string     `bson:"external_id"`
	Status       string     `bson:"status"`
	CurrentStart *time.Time `bson:"current_start,omitempty"`
	CurrentEnd   *time.Time `bson:"current_end,omitempty"`
	ChargeAt     *time.Time `bson:"charge_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a MongoDB-backed subscription store and ensures
// the unique external-id and user indexes exist.
func NewMongoStore(ctx context.Context, db *mongo.Database) (Store, error) {
	coll := db.Collection(subscriptionsCollection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription indexes: %w", err)
	}

	return &mongoStore{coll: coll}, nil
}

func (s *mongoStore) Create(ctx context.Context, sub Subscription) error {
	if !sub.Status.Valid() {
		return ErrInvalidStatus
	}

	_, err := s.coll.InsertOne(ctx, toSubscriptionDoc(sub))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateExternalID
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id uuid.UUID) (Subscription, error) {
	var doc subscriptionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, fmt.Errorf("find subscription: %w", err)
	}
	return fromSubscriptionDoc(doc)
}

func (s *mongoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"user_id": userID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	var docs []subscriptionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}

	subs := make([]Subscription, 0, len(docs))
	for _, doc := range docs {
		sub, err := fromSubscriptionDoc(doc)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// UpdateStatus writes the status field in a single atomic update keyed
// by id, so concurrent writers cannot lose each other's field writes.
func (s *mongoStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Subscription, error) {
	if !status.Valid() {
		return Subscription{}, ErrInvalidStatus
	}

	var doc subscriptionDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, fmt.Errorf("update subscription status: %w", err)
	}
	return fromSubscriptionDoc(doc)
}

func toSubscriptionDoc(sub Subscription) subscriptionDoc {
	return subscriptionDoc{
		ID:           sub.ID.String(),
		UserID:       sub.UserID.String(),
		PlanID:       sub.PlanID.String(),
		ExternalID:   sub.ExternalID,
		Status:       string(sub.Status),
		CurrentStart: sub.CurrentStart,
		CurrentEnd:   sub.CurrentEnd,
		ChargeAt:     sub.ChargeAt,
		CreatedAt:    sub.CreatedAt,
		UpdatedAt:    sub.UpdatedAt,
	}
}

func fromSubscriptionDoc(doc subscriptionDoc) (Subscription, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Subscription{}, fmt.Errorf("parse subscription id %q: %w", doc.ID, err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return Subscription{}, fmt.Errorf("parse subscription user id %q: %w", doc.UserID, err)
	}
	planID, err := uuid.Parse(doc.PlanID)
	if err != nil {
		return Subscription{}, fmt.Errorf("parse subscription plan id %q: %w", doc.PlanID, err)
	}
	return Subscription{
		ID:           id,
		UserID:       userID,
		PlanID:       planID,
		ExternalID:   doc.ExternalID,
		Status:       Status(doc.Status),
		CurrentStart: doc.CurrentStart,
		CurrentEnd:   doc.CurrentEnd,
		ChargeAt:     doc.ChargeAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
