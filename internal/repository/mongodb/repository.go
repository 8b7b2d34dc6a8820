package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

var _ repository.SummaryArchive = (*SummaryRepository)(nil)

// SummaryRepository archives generated summaries in MongoDB.
type SummaryRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewSummaryRepository connects and pings before returning.
func NewSummaryRepository(ctx context.Context, uri string, dbName string) (*SummaryRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SummaryRepository{
		client:   client,
		dbName:   dbName,
		collName: "summaries",
	}, nil
}

func (r *SummaryRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveSummary inserts one summary document.
func (r *SummaryRepository) SaveSummary(ctx context.Context, summary models.Summary) error {
	if _, err := r.collection().InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}
	return nil
}

// RecentSummaries returns up to limit summaries, newest first.
func (r *SummaryRepository) RecentSummaries(ctx context.Context, limit int64) ([]models.Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Summary
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode summaries: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *SummaryRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
