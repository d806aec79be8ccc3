// Package shard provides partition key generation for the sharded posts table.
package shard

import (
	"fmt"
	"hash/fnv"
)

// Prefix is the partition key prefix shared by all post items.
const Prefix = "posts"

// MaxShards is the largest supported shard count.
const MaxShards = 256

// PostPK computes the partition key holding the post with id.
// With numShards<=1, all posts go to shard "00".
// With numShards>1, posts are distributed across shards based on the id hash.
func PostPK(id string, numShards int) string {
	if numShards <= 1 {
		return ShardPK(0)
	}
	if numShards > MaxShards {
		numShards = MaxShards
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return ShardPK(int(h.Sum32() % uint32(numShards)))
}

// ShardPK returns the partition key of shard n.
func ShardPK(n int) string {
	return fmt.Sprintf("%s#%02x", Prefix, n)
}
