package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const invoicesCollection = "invoices"

type lineItemDoc struct {
	Description string `bson:"description"`
	Amount      int64  `bson:"amount"`
}

type invoiceDoc struct {
	ID             string        `bson:"_id"`
	UserID         string        `bson:"user_id"`
	SubscriptionID string        `bson:"subscription_id"`
	Amount         int64         `bson:"amount"`
	Status         string        `bson:"status"`
	InvoiceDate    time.Time     `bson:"invoice_date"`
	DueDate        time.Time     `bson:"due_date"`
	LineItems      []lineItemDoc `bson:"line_items"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a MongoDB-backed invoice store and ensures the
// user/date listing index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (Store, error) {
	coll := db.Collection(invoicesCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "invoice_date", Value: -1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice indexes: %w", err)
	}

	return &mongoStore{coll: coll}, nil
}

func (s *mongoStore) Create(ctx context.Context, params CreateParams) (Invoice, error) {
	if !params.Status.Valid() {
		return Invoice{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	due := params.DueDate
	if due.IsZero() {
		due = now
	}

	items := make([]lineItemDoc, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		items = append(items, lineItemDoc(item))
	}

	doc := invoiceDoc{
		ID:             uuid.New().String(),
		UserID:         params.UserID.String(),
		SubscriptionID: params.SubscriptionID.String(),
		Amount:         params.Amount,
		Status:         string(params.Status),
		InvoiceDate:    now,
		DueDate:        due,
		LineItems:      items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	return fromInvoiceDoc(doc)
}

func (s *mongoStore) Get(ctx context.Context, id uuid.UUID) (Invoice, error) {
	var doc invoiceDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, fmt.Errorf("find invoice: %w", err)
	}
	return fromInvoiceDoc(doc)
}

func (s *mongoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Invoice, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"user_id": userID.String()},
		options.Find().SetSort(bson.D{{Key: "invoice_date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var docs []invoiceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}

	invoices := make([]Invoice, 0, len(docs))
	for _, doc := range docs {
		inv, err := fromInvoiceDoc(doc)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// MarkPaid settles the invoice with a conditional atomic update: the
// unpaid check lives in the write filter, so two racing payments cannot
// both succeed.
func (s *mongoStore) MarkPaid(ctx context.Context, id uuid.UUID) (Invoice, error) {
	var doc invoiceDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "status": string(StatusUnpaid)},
		bson.M{"$set": bson.M{
			"status":     string(StatusPaid),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish a missing invoice from one in the wrong state.
			exists, countErr := s.coll.CountDocuments(ctx, bson.M{"_id": id.String()})
			if countErr != nil {
				return Invoice{}, fmt.Errorf("check invoice existence: %w", countErr)
			}
			if exists == 0 {
				return Invoice{}, ErrNotFound
			}
			return Invoice{}, ErrInvalidState
		}
		return Invoice{}, fmt.Errorf("mark invoice paid: %w", err)
	}
	return fromInvoiceDoc(doc)
}

func fromInvoiceDoc(doc invoiceDoc) (Invoice, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Invoice{}, fmt.Errorf("parse invoice id %q: %w", doc.ID, err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return Invoice{}, fmt.Errorf("parse invoice user id %q: %w", doc.UserID, err)
	}
	subID, err := uuid.Parse(doc.SubscriptionID)
	if err != nil {
		return Invoice{}, fmt.Errorf("parse invoice subscription id %q: %w", doc.SubscriptionID, err)
	}

	items := make([]LineItem, 0, len(doc.LineItems))
	for _, item := range doc.LineItems {
		items = append(items, LineItem(item))
	}

	return Invoice{
		ID:             id,
		UserID:         userID,
		SubscriptionID: subID,
		Amount:         doc.Amount,
		Status:         Status(doc.Status),
		InvoiceDate:    doc.InvoiceDate,
		DueDate:        doc.DueDate,
		LineItems:      items,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}
