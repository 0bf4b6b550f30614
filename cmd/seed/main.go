package main

import (
	"concierge/internal/config"
	"concierge/internal/repository"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the MongoDB knowledge base from the JSON file, so a deployment can
// switch to KB_SOURCE=mongo with the same intents it ran from disk.
func main() {
	cfg := config.Load()

	kb, err := repository.LoadKnowledgeBaseFile(cfg.KBPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewIntentRepo(client.Database(cfg.MongoDB))
	if err := repo.ReplaceAll(ctx, kb); err != nil {
		log.Fatalf("Failed to seed intents: %v", err)
	}

	fmt.Printf("Seeded %d intents and %d fallback responses into %s\n",
		len(kb.Intents), len(kb.FallbackResponses), cfg.MongoDB)
}
