package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PropertyFox/internal/pkg/config"
)

var client *redis.Client

// SetupCache initializes the connection to the Redis server used for unit locks
func SetupCache(cfg config.Cache) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warnf("[Cache] could not connect to %s: %v", addr, err)
		return fmt.Errorf("redis %s unreachable: %w", addr, err)
	}

	log.Infof("[Cache] connected to %s: %s", addr, pong)
	return nil
}

// GetClient returns the Redis client instance, nil before SetupCache
func GetClient() *redis.Client {
	return client
}

// Close closes the client if it was opened
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
