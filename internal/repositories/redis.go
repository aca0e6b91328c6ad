package repositories

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/whendid/whendid/internal/config"
)

var RDB *redis.Client

// ConnectRedis dials the configured Redis instance. Every entity in the
// system lives there, so an unreachable store is fatal at boot.
func ConnectRedis() {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Envs.Redis.Addr,
		Password: config.Envs.Redis.Password,
		DB:       config.Envs.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}
	RDB = rdb
	log.Println("Successfully connected to redis")
}

// SetClient swaps in an existing client. Tests use this with miniredis.
func SetClient(rdb *redis.Client) {
	RDB = rdb
}
