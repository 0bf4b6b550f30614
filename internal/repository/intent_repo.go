package repository

import (
	"concierge/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const metaDocID = "default"

// IntentRepo handles MongoDB operations for the knowledge base
type IntentRepo interface {
	LoadKnowledgeBase(ctx context.Context) (*model.KnowledgeBase, error)
	ReplaceAll(ctx context.Context, kb *model.KnowledgeBase) error
}

type intentRepo struct {
	intents *mongo.Collection
	meta    *mongo.Collection
}

// NewIntentRepo creates a new intent repository
func NewIntentRepo(db *mongo.Database) IntentRepo {
	return &intentRepo{
		intents: db.Collection("intents"),
		meta:    db.Collection("kb_meta"),
	}
}

// LoadKnowledgeBase reads every intent ordered by position. The order is
// load-bearing: scoring ties break to the earliest intent.
func (r *intentRepo) LoadKnowledgeBase(ctx context.Context) (*model.KnowledgeBase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.intents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var intents []model.Intent
	if err := cursor.All(ctx, &intents); err != nil {
		return nil, err
	}

	kb := &model.KnowledgeBase{Intents: intents}

	var meta struct {
		FallbackResponses []string `bson:"fallbackResponses"`
	}
	err = r.meta.FindOne(ctx, bson.M{"_id": metaDocID}).Decode(&meta)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}
	kb.FallbackResponses = meta.FallbackResponses

	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

// ReplaceAll overwrites the stored knowledge base, preserving intent order
// through the position field. Used by the seeder.
func (r *intentRepo) ReplaceAll(ctx context.Context, kb *model.KnowledgeBase) error {
	if err := kb.Validate(); err != nil {
		return err
	}

	if _, err := r.intents.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}

	docs := make([]interface{}, 0, len(kb.Intents))
	for i, intent := range kb.Intents {
		intent.Position = i
		docs = append(docs, intent)
	}
	if _, err := r.intents.InsertMany(ctx, docs); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"fallbackResponses": kb.FallbackResponses}}
	opts := options.Update().SetUpsert(true)
	_, err := r.meta.UpdateOne(ctx, bson.M{"_id": metaDocID}, update, opts)
	return err
}
