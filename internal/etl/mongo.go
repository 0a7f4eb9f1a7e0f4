package etl

import (
	"context"
	"fmt"

	"github.com/BartekS5/ipla/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoExtractor reads a whole collection in _id order. Fields missing from
// a document read as null.
type MongoExtractor struct {
	Client     *mongo.Client
	Database   string
	Collection string
	Log        *zap.Logger
}

func (m *MongoExtractor) Name() string { return "mongo:" + m.Database + "." + m.Collection }

func (m *MongoExtractor) Extract(ctx context.Context, schema *models.Schema) (*RawBatch, error) {
	coll := m.Client.Database(m.Database).Collection(m.Collection)

	names := schema.Names()
	projection := bson.D{}
	for _, n := range names {
		projection = append(projection, bson.E{Key: n, Value: 1})
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(projection)

	cursor, err := coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, m.Name(), err)
	}
	defer cursor.Close(ctx)

	batch := &RawBatch{Source: m.Name(), Header: names}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			batch.Malformed++
			orNop(m.Log).Debug("skipping undecodable document", zap.String("source", m.Name()), zap.Error(err))
			continue
		}
		batch.Rows = append(batch.Rows, documentRow(doc, names))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, m.Name(), err)
	}
	return batch, nil
}

func documentRow(doc bson.M, names []string) []interface{} {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = doc[n]
	}
	return row
}
