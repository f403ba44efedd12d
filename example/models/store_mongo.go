package models

import (
	"context"
	"time"

	"codeberg.org/ac/base62"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists links in a mongo collection, with a sibling counters
// collection standing in for an autoincrement id.
type MongoStore struct {
	links    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore returns a store over db's "links" collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		links:    db.Collection("links"),
		counters: db.Collection("counters"),
	}
}

// nextID atomically increments and returns the links sequence.
func (s *MongoStore) nextID(ctx context.Context) (int, error) {
	after := options.After
	result := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "links"},
		bson.M{"$inc": bson.M{"seq": 1}},
		&options.FindOneAndUpdateOptions{
			Upsert:         boolPtr(true),
			ReturnDocument: &after,
		},
	)

	var counter struct {
		Seq int `bson:"seq"`
	}
	if err := result.Decode(&counter); err != nil {
		return 0, errors.Wrap(err, "counters.FindOneAndUpdate")
	}
	return counter.Seq, nil
}

func (s *MongoStore) Create(ctx context.Context, link *Link) error {
	id, err := s.nextID(ctx)
	if err != nil {
		return err
	}

	link.ID = id
	link.Code = base62.Encode(uint32(id + idBuffer))
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	if _, err := s.links.InsertOne(ctx, link); err != nil {
		return errors.Wrap(err, "links.InsertOne")
	}
	return nil
}

func (s *MongoStore) FindByCode(ctx context.Context, code string) (*Link, error) {
	link := &Link{}
	err := s.links.FindOne(ctx, bson.M{"code": code}).Decode(link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "links.FindOne")
	}
	return link, nil
}

func (s *MongoStore) Hit(ctx context.Context, code string) error {
	_, err := s.links.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$inc": bson.M{"hits": 1}},
	)
	return errors.Wrap(err, "links.UpdateOne")
}

func (s *MongoStore) Save(ctx context.Context, link *Link) error {
	_, err := s.links.ReplaceOne(ctx, bson.M{"id": link.ID}, link)
	return errors.Wrap(err, "links.ReplaceOne")
}

func (s *MongoStore) List(ctx context.Context, code, term string) ([]Link, error) {
	filter := bson.M{}
	if len(code) != 0 {
		filter["code"] = code
	}
	if len(term) != 0 {
		filter["target"] = bson.M{"$regex": primitive.Regex{Pattern: term}}
	}

	cursor, err := s.links.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "links.Find")
	}

	var results []Link
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrap(err, "cursor.All")
	}
	return results, nil
}

func boolPtr(b bool) *bool {
	return &b
}
