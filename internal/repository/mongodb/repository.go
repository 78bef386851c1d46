package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/portaria/internal/domain/models"
)

// Repository defines the interface for summary storage.
type Repository interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// summaryDocument is the stored shape of a DailySummary. Money uses Decimal128.
type summaryDocument struct {
	Date            time.Time                       `bson:"date"`
	Visits          int                             `bson:"visits"`
	BilledPersons   int                             `bson:"billed_persons"`
	ExemptChildren  int                             `bson:"exempt_children"`
	Revenue         primitive.Decimal128            `bson:"revenue"`
	RevenueByMethod map[string]primitive.Decimal128 `bson:"revenue_by_method"`
	OpenRecords     int                             `bson:"open_records"`
	CreatedAt       time.Time                       `bson:"created_at"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_summaries",
	}, nil
}

// SaveDailySummary upserts the summary of one day, so re-running the closing
// job replaces the earlier figures.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	doc, err := toDocument(summary)
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err = collection.ReplaceOne(ctx, bson.M{"date": doc.Date}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(summary models.DailySummary) (summaryDocument, error) {
	revenue, err := primitive.ParseDecimal128(summary.Revenue.String())
	if err != nil {
		return summaryDocument{}, fmt.Errorf("encode revenue: %w", err)
	}

	byMethod := make(map[string]primitive.Decimal128, len(summary.RevenueByMethod))
	for method, amount := range summary.RevenueByMethod {
		value, err := primitive.ParseDecimal128(amount.String())
		if err != nil {
			return summaryDocument{}, fmt.Errorf("encode %s revenue: %w", method, err)
		}
		byMethod[string(method)] = value
	}

	return summaryDocument{
		Date:            summary.Date,
		Visits:          summary.Visits,
		BilledPersons:   summary.BilledPersons,
		ExemptChildren:  summary.ExemptChildren,
		Revenue:         revenue,
		RevenueByMethod: byMethod,
		OpenRecords:     summary.OpenRecords,
		CreatedAt:       summary.CreatedAt,
	}, nil
}
