package rates

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type record struct {
	DocID string         `bson:"_id"`
	Votes map[string]int `bson:"votes"`
}

// MongoRepo implements Repository on the document-rates collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context, docID string) (*Record, error) {
	var rec record
	err := m.col.FindOne(ctx, bson.M{"_id": docID}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &Record{Votes: rec.Votes}, nil
}

func (m *MongoRepo) SetVote(ctx context.Context, docID, uid string, value int) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": bson.M{"votes." + uid: value}},
		options.Update().SetUpsert(true))
	return err
}
