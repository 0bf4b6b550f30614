package main

import (
	"concierge/internal/cache"
	"concierge/internal/config"
	"concierge/internal/model"
	"concierge/internal/repository"
	"concierge/internal/service"
	"concierge/internal/transport/rest"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Model:   %s", aiConfig.Model)
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured")
	} else {
		log.Println("  API Key: NOT SET (AI escalations degrade to fallback replies)")
	}

	// Knowledge base: a file by default, MongoDB when KB_SOURCE=mongo.
	// Without one, no request can be served, so any failure here is fatal.
	var kb *model.KnowledgeBase
	switch cfg.KBSource {
	case "mongo":
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")

		kb, err = repository.NewIntentRepo(mongoClient.Database(cfg.MongoDB)).LoadKnowledgeBase(ctx)
		if err != nil {
			log.Fatal("Failed to load knowledge base from MongoDB:", err)
		}
	default:
		var err error
		kb, err = repository.LoadKnowledgeBaseFile(cfg.KBPath)
		if err != nil {
			log.Fatal("Failed to load knowledge base:", err)
		}
	}
	log.Printf("Knowledge base loaded: %d intents", len(kb.Intents))

	detector := service.NewDetectorService(kb)

	// Redis detection cache, optional
	if cfg.RedisAddr != "" {
		redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		detector.SetCache(cache.NewDetectionCache(rdb))
	}

	// Initialize services
	authSvc := service.NewAuthService()
	gemini := service.NewGeminiService()
	chatSvc := service.NewChatService(kb, detector, service.NewRoutingService(), gemini)

	// Create router with container
	container := &rest.Container{
		ChatService: chatSvc,
		AuthService: authSvc,
		KB:          kb,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/chat")
		log.Println("  GET  /v1/ws/chat")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/admin/intents")
		log.Println("  GET  /v1/admin/intents/{name}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
