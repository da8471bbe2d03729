package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore backs Store with a MongoDB collection, for deployments
// that already run Mongo for their other services rather than a
// dedicated SQL instance.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongoStore connects to uri and targets database/compile_history.
func OpenMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo store: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection("compile_history"),
	}, nil
}

type mongoRecord struct {
	JobID     string    `bson:"job_id"`
	Source    string    `bson:"source"`
	Outcome   string    `bson:"outcome"`
	Error     string    `bson:"error,omitempty"`
	TAC       string    `bson:"tac,omitempty"`
	Assembly  string    `bson:"assembly,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *MongoStore) Record(ctx context.Context, rec Record) error {
	_, err := s.collection.InsertOne(ctx, mongoRecord{
		JobID:     rec.JobID,
		Source:    rec.Source,
		Outcome:   rec.Outcome,
		Error:     rec.Error,
		TAC:       rec.TAC,
		Assembly:  rec.Assembly,
		CreatedAt: rec.CreatedAt,
	})
	return err
}

func (s *MongoStore) History(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Record
	for cursor.Next(ctx) {
		var mr mongoRecord
		if err := cursor.Decode(&mr); err != nil {
			return nil, err
		}
		out = append(out, Record{
			JobID: mr.JobID, Source: mr.Source, Outcome: mr.Outcome,
			Error: mr.Error, TAC: mr.TAC, Assembly: mr.Assembly, CreatedAt: mr.CreatedAt,
		})
	}
	return out, cursor.Err()
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
