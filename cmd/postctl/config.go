package main

import (
	"os"
	"strconv"
	"time"
)

// Backends supported by --backend.
const (
	backendHTTP     = "http"
	backendDynamoDB = "dynamodb"
)

// options holds the resolved global flags.
type options struct {
	Backend string
	APIURL  string
	APIKey  string
	Table   string
	Shards  int
	Timeout time.Duration
	Verbose bool
}

// defaultOptions reads defaults from the environment.
func defaultOptions() options {
	return options{
		Backend: getEnv("POSTS_BACKEND", backendHTTP),
		APIURL:  getEnv("POSTS_API_URL", "http://localhost:8080/api"),
		APIKey:  getEnv("POSTS_API_KEY", ""),
		Table:   getEnv("POSTS_TABLE", "posts"),
		Shards:  getEnvInt("POSTS_SHARDS", 1),
		Timeout: 10 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
