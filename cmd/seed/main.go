package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sheetgrader/internal/cache"
	"sheetgrader/internal/config"
	"sheetgrader/internal/model"
	"sheetgrader/internal/repository"
	"sheetgrader/internal/service"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the answer key of an instructor's workspace.
//
//	seed ABCDABCDABCDABCDABCD
//	seed key.json            ({"1":"A","2":"B",...})
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: seed <20 letters | key.json>")
		os.Exit(2)
	}

	key, err := readKey(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid answer key: %v", err)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store service.StateStore
	switch cfg.StateBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(ctx)
		store = repository.NewStateRepo(client.Database(cfg.MongoDB))
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		store = cache.NewStateCache(rdb)
	default:
		log.Fatalf("STATE_BACKEND %q cannot be seeded", cfg.StateBackend)
	}

	username := os.Getenv("HOST_USERNAME")
	if username == "" {
		username = "admin"
	}
	hostID := service.HostID(username)

	keys, err := service.LoadAnswerKeyStore(ctx, service.ScopedStore(store, hostID))
	if err != nil {
		log.Fatalf("Failed to load answer key: %v", err)
	}
	if err := keys.Replace(ctx, key); err != nil {
		log.Fatalf("Failed to save answer key: %v", err)
	}

	fmt.Printf("Successfully seeded answer key for host '%s'\n", hostID)
}

func readKey(arg string) (model.AnswerKey, error) {
	if _, err := os.Stat(arg); err != nil {
		return model.ParseAnswerKeyString(arg)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	var key model.AnswerKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, err
	}
	return key, nil
}
