package remote

import (
	"strings"
	"time"

	"github.com/ftsanjuan/modern-react-redux-blog/internal/shard"
)

// HTTPConfig holds configuration for the HTTP remote.
type HTTPConfig struct {
	// BaseURL is the API root; posts live under BaseURL + "/posts".
	// Default: "http://localhost:8080/api"
	BaseURL string

	// APIKey is sent as the "key" query parameter when set.
	APIKey string

	// Timeout bounds a single HTTP round trip.
	// Default: 10s
	Timeout time.Duration

	// Retries is the number of extra attempts for GET requests that fail
	// before a response is received. Default: 2
	Retries int

	// RetryDelay is the pause between GET attempts.
	// Default: 500ms
	RetryDelay time.Duration
}

// DefaultHTTPConfig returns defaults for a local API.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		BaseURL:    "http://localhost:8080/api",
		Timeout:    10 * time.Second,
		Retries:    2,
		RetryDelay: 500 * time.Millisecond,
	}
}

// validate fills in defaults for unset values.
func (c *HTTPConfig) validate() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080/api"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
}

// DynamoConfig holds configuration for the DynamoDB remote.
type DynamoConfig struct {
	// Table is the posts table name.
	// Default: "posts"
	Table string

	// NumShards is the number of partitions posts are spread across.
	// Listing issues one query per shard.
	// Default: 1
	// Max: 256
	NumShards int
}

// DefaultDynamoConfig returns sensible defaults for small datasets.
func DefaultDynamoConfig() DynamoConfig {
	return DynamoConfig{
		Table:     "posts",
		NumShards: 1,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *DynamoConfig) validate() {
	if c.Table == "" {
		c.Table = "posts"
	}
	if c.NumShards < 1 {
		c.NumShards = 1
	}
	if c.NumShards > shard.MaxShards {
		c.NumShards = shard.MaxShards
	}
}
