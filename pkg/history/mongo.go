package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo collection names.
const (
	snapshotsCollection = "snapshots"
	changesCollection   = "changes"
)

// MongoStore keeps snapshots in MongoDB, one document per day keyed by the
// date string.
type MongoStore struct {
	client    *mongo.Client
	snapshots *mongo.Collection
	changes   *mongo.Collection
}

type snapshotDoc struct {
	ID       string   `bson:"_id"`
	Snapshot Snapshot `bson:",inline"`
}

type changesDoc struct {
	ID       string `bson:"_id"`
	Markdown string `bson:"markdown"`
}

// OpenMongo connects to uri and uses the given database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		snapshots: db.Collection(snapshotsCollection),
		changes:   db.Collection(changesCollection),
	}, nil
}

// Latest returns the snapshot with the greatest date key.
func (s *MongoStore) Latest(ctx context.Context) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var doc snapshotDoc
	err := s.snapshots.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest snapshot: %w", err)
	}
	return &doc.Snapshot, nil
}

// Load returns the snapshot of one day.
func (s *MongoStore) Load(ctx context.Context, date time.Time) (*Snapshot, error) {
	key := date.Format(DateLayout)
	var doc snapshotDoc
	err := s.snapshots.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot %s: %w", key, err)
	}
	return &doc.Snapshot, nil
}

// List returns a summary per snapshot, newest first.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := s.snapshots.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var doc snapshotDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, Summary{Date: doc.Snapshot.Date, RunID: doc.Snapshot.RunID, Projects: len(doc.Snapshot.Records)})
	}
	return out, cur.Err()
}

// Save upserts the snapshot of the day.
func (s *MongoStore) Save(ctx context.Context, snap *Snapshot) error {
	doc := snapshotDoc{ID: snap.Key(), Snapshot: *snap}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.snapshots.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, opts); err != nil {
		return fmt.Errorf("save snapshot %s: %w", doc.ID, err)
	}
	return nil
}

// SaveChanges upserts the change digest of the day.
func (s *MongoStore) SaveChanges(ctx context.Context, date time.Time, markdown string) error {
	doc := changesDoc{ID: date.Format(DateLayout), Markdown: markdown}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.changes.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, opts); err != nil {
		return fmt.Errorf("save changes %s: %w", doc.ID, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
