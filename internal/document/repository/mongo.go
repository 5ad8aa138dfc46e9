package repository

import (
	"context"

	"github.com/markhub/markhub/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// record is one row of the docs collection: the owner uid as _id and the
// id->document map as value.
type record struct {
	UID  string       `bson:"_id"`
	Docs document.Map `bson:"docs"`
}

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) GetMap(ctx context.Context, uid string) (document.Map, error) {
	var rec record
	err := m.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.Docs == nil {
		rec.Docs = document.Map{}
	}
	return rec.Docs, nil
}

func (m *MongoRepo) SetEntry(ctx context.Context, uid, id string, doc document.Document) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{"docs." + id: doc}},
		options.Update().SetUpsert(true))
	return err
}

// SetEntryIfStamp re-asserts the expected mdate inside the update filter so
// the stale-check and the write land in one atomic document operation.
func (m *MongoRepo) SetEntryIfStamp(ctx context.Context, uid, id string, doc document.Document, expectedMDate string) error {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": uid, "docs." + id + ".mdate": expectedMDate},
		bson.M{"$set": bson.M{"docs." + id: doc}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStale
	}
	return nil
}

func (m *MongoRepo) RemoveEntry(ctx context.Context, uid, id string) error {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": uid, "docs." + id: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"docs." + id: ""}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) All(ctx context.Context) (map[string]document.Map, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]document.Map{}
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		if rec.Docs == nil {
			rec.Docs = document.Map{}
		}
		out[rec.UID] = rec.Docs
	}
	return out, cur.Err()
}

// PermanentNameTaken scans every map. Unindexed full-collection read,
// acceptable at the expected scale.
func (m *MongoRepo) PermanentNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	all, err := m.All(ctx)
	if err != nil {
		return false, err
	}
	for _, docs := range all {
		for id, doc := range docs {
			if id != excludeID && doc.Visibility == document.VisibilityPermanent && doc.Name == name {
				return true, nil
			}
		}
	}
	return false, nil
}
