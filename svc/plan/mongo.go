package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const plansCollection = "plans"

type planDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Module       string    `bson:"module"`
	Price        int64     `bson:"price"`
	BillingCycle string    `bson:"billing_cycle"`
	Features     []string  `bson:"features"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a MongoDB-backed plan repository and
// ensures the unique name index exists.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection(plansCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create plan name index: %w", err)
	}

	return &mongoRepository{coll: coll}, nil
}

func (r *mongoRepository) Create(ctx context.Context, p Plan) error {
	_, err := r.coll.InsertOne(ctx, toPlanDoc(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (r *mongoRepository) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	var doc planDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Plan{}, ErrNotFound
		}
		return Plan{}, fmt.Errorf("find plan: %w", err)
	}
	return fromPlanDoc(doc)
}

func (r *mongoRepository) List(ctx context.Context) ([]Plan, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	var docs []planDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}

	plans := make([]Plan, 0, len(docs))
	for _, doc := range docs {
		p, err := fromPlanDoc(doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func toPlanDoc(p Plan) planDoc {
	return planDoc{
		ID:           p.ID.String(),
		Name:         p.Name,
		Module:       string(p.Module),
		Price:        p.Price,
		BillingCycle: string(p.BillingCycle),
		Features:     p.Features,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func fromPlanDoc(doc planDoc) (Plan, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Plan{}, fmt.Errorf("parse plan id %q: %w", doc.ID, err)
	}
	return Plan{
		ID:           id,
		Name:         doc.Name,
		Module:       Module(doc.Module),
		Price:        doc.Price,
		BillingCycle: BillingCycle(doc.BillingCycle),
		Features:     doc.Features,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
