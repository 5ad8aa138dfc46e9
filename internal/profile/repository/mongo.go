package repository

import (
	"context"

	"github.com/markhub/markhub/internal/profile"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type record struct {
	UID     string          `bson:"_id"`
	Profile profile.Profile `bson:"profile"`
}

// MongoRepo implements Repository on the users-profiles collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context, uid string) (*profile.Profile, error) {
	var rec record
	err := m.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec.Profile, nil
}

func (m *MongoRepo) Set(ctx context.Context, uid string, p profile.Profile) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{"profile": p}},
		options.Update().SetUpsert(true))
	return err
}

func (m *MongoRepo) All(ctx context.Context) (map[string]*profile.Profile, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]*profile.Profile{}
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		p := rec.Profile
		out[rec.UID] = &p
	}
	return out, cur.Err()
}

// DisplayNameTaken scans every profile record. Unindexed full-collection
// read, acceptable at the expected scale.
func (m *MongoRepo) DisplayNameTaken(ctx context.Context, uid, displayName string) (bool, error) {
	all, err := m.All(ctx)
	if err != nil {
		return false, err
	}
	for owner, p := range all {
		if owner == uid || p.DisplayName == nil {
			continue
		}
		if *p.DisplayName == displayName {
			return true, nil
		}
	}
	return false, nil
}
