// shared/pkg/reminder/mongo.go
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const Collection = "reminders"

// MongoSink stores one document per reminder, keyed by booking and kind so
// rescheduling overwrites instead of duplicating.
type MongoSink struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoSink creates a sink that stores reminders in coll
func NewMongoSink(coll *mongo.Collection, logger *zap.Logger) *MongoSink {
	return &MongoSink{coll: coll, logger: logger}
}

// Connect dials MongoDB and returns a sink on the reminders collection of database.
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*MongoSink, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}},
	})
	if err != nil {
		logger.Warn("failed to create reminder index", zap.Error(err))
	}

	return NewMongoSink(coll, logger), client.Disconnect, nil
}

// Schedule upserts the reminder by ID
func (s *MongoSink) Schedule(ctx context.Context, r Reminder) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to schedule reminder %s: %w", r.ID, err)
	}
	return nil
}

// Cancel deletes every reminder of a booking
func (s *MongoSink) Cancel(ctx context.Context, bookingID string) error {
	res, err := s.coll.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("failed to cancel reminders for %s: %w", bookingID, err)
	}
	s.logger.Debug("reminders cancelled", zap.String("booking_id", bookingID), zap.Int64("deleted", res.DeletedCount))
	return nil
}
