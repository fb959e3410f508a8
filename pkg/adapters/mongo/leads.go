// Package mongo stores submitted leads in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/upskill/pkg/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults used by Connect.
const (
	DefaultDatabase   = "upskill"
	DefaultCollection = "leads"
)

type leadDocument struct {
	ID               string    `bson:"_id"`
	SessionID        string    `bson:"session_id"`
	CompanyName      string    `bson:"company_name"`
	ContactName      string    `bson:"contact_name"`
	Email            string    `bson:"email"`
	Phone            string    `bson:"phone,omitempty"`
	TeamSize         int       `bson:"team_size"`
	RecommendedTrack string    `bson:"recommended_track"`
	Delivery         string    `bson:"delivery"`
	QuoteCents       int64     `bson:"quote_cents"`
	CreatedAt        time.Time `bson:"created_at"`
}

func toDocument(l domain.Lead) leadDocument {
	return leadDocument{
		ID:               l.ID,
		SessionID:        l.SessionID,
		CompanyName:      l.CompanyName,
		ContactName:      l.ContactName,
		Email:            l.Email,
		Phone:            l.Phone,
		TeamSize:         l.TeamSize,
		RecommendedTrack: string(l.RecommendedTrack),
		Delivery:         string(l.Delivery),
		QuoteCents:       int64(l.QuoteValue),
		CreatedAt:        l.CreatedAt.UTC(),
	}
}

func (d leadDocument) toLead() domain.Lead {
	return domain.Lead{
		ID:               d.ID,
		SessionID:        d.SessionID,
		CompanyName:      d.CompanyName,
		ContactName:      d.ContactName,
		Email:            d.Email,
		Phone:            d.Phone,
		TeamSize:         d.TeamSize,
		RecommendedTrack: domain.Track(d.RecommendedTrack),
		Delivery:         domain.DeliveryMode(d.Delivery),
		QuoteValue:       domain.Money(d.QuoteCents),
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

// LeadStore implements ports.LeadStore on a MongoDB collection.
type LeadStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect dials uri and returns a store on database and collection.
// Empty names fall back to DefaultDatabase and DefaultCollection.
func Connect(ctx context.Context, uri, database, collection string) (*LeadStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return NewLeadStore(client, database, collection), nil
}

// NewLeadStore uses an existing client.
func NewLeadStore(client *mongo.Client, database, collection string) *LeadStore {
	return &LeadStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// Save upserts the lead by ID.
func (s *LeadStore) Save(ctx context.Context, lead domain.Lead) error {
	doc := toDocument(lead)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: save lead %s: %w", lead.ID, err)
	}
	return nil
}

// List returns leads newest first.
func (s *LeadStore) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list leads: %w", err)
	}
	defer cur.Close(ctx)

	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: decode leads: %w", err)
	}

	out := make([]domain.Lead, len(docs))
	for i, d := range docs {
		out[i] = d.toLead()
	}
	return out, nil
}

// Close disconnects the client.
func (s *LeadStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
