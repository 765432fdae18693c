package models

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisClient caches product listings. It stays nil when Redis is not
// configured or not reachable, and callers treat nil as cache-off.
var RedisClient *redis.Client

func InitRedis() {
	var opt *redis.Options
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Println("Invalid REDIS_URL, product cache disabled:", err)
			return
		}
		opt = parsed
	} else {
		db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		opt = &redis.Options{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       db,
		}
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("Redis unreachable, product cache disabled:", err)
		return
	}

	RedisClient = client
	log.Println("Redis cache connected")
}

func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
