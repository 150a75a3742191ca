package infrastructures

import (
	"context"
	"os"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0, // use default DB
	})

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect redis: %v", err)
	}

	return client
}

// NewLockClient wraps the shared redis client for advisory locks. The
// draw engine holds one of these across its whole execute sequence.
func NewLockClient(client *redis.Client) *redislock.Client {
	return redislock.New(client)
}
