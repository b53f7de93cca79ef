package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// CollectionName is the MongoDB collection documents are stored in.
const CollectionName = "documents"

// MongoStore stores documents in a MongoDB collection, one record per key.
// The document body is kept as its JSON encoding so that key order and
// JSON-LD keywords survive unchanged.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and uses the documents collection of
// database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(CollectionName)}, nil
}

func (s *MongoStore) Load(ctx context.Context, key string) (codemeta.Document, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "no document %q", key)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return codemeta.Decode([]byte(rec.Document))
}

func (s *MongoStore) Save(ctx context.Context, key string, doc codemeta.Document) error {
	data, err := codemeta.Encode(doc)
	if err != nil {
		return err
	}
	name, _ := doc["name"].(string)
	rec := mongoRecord{Key: key, Name: name, Document: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var recs []struct {
		Key string `bson:"_id"`
	}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
