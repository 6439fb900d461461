package green

import (
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/viletech/doomfront/internal/syntax"
)

// A SharedCache interns tokens and small nodes like LocalCache but can be shared
// by parses running in parallel. Entries are spread over the shards of a
// concurrent map, each lookup-or-insert holds the lock of a single shard.
type SharedCache struct {
	maxChildren int
	tokens      cmap.ConcurrentMap[uint64, []*Token]
	nodes       cmap.ConcurrentMap[uint64, []*Node]

	tokenCount       atomic.Int64
	nodeCount        atomic.Int64
	tokenHits        atomic.Int64
	nodeHits         atomic.Int64
	uncacheableCount atomic.Int64
}

func NewSharedCache(opts ...CacheOptions) *SharedCache {
	var opt CacheOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	return &SharedCache{
		maxChildren: opt.maxChildren(),
		tokens:      cmap.NewWithCustomShardingFunction[uint64, []*Token](shardOf),
		nodes:       cmap.NewWithCustomShardingFunction[uint64, []*Node](shardOf),
	}
}

func shardOf(hash uint64) uint32 {
	return uint32(hash) ^ uint32(hash>>32)
}

func (c *SharedCache) Token(kind syntax.Kind, text string) (uint64, *Token) {
	hash := tokenHash(kind, text)

	var found *Token

	c.tokens.Upsert(hash, nil, func(exists bool, bucket []*Token, _ []*Token) []*Token {
		for _, token := range bucket {
			if token.kind == kind && token.text == text {
				found = token
				c.tokenHits.Add(1)
				return bucket
			}
		}
		found = NewToken(kind, text)
		c.tokenCount.Add(1)
		return append(bucket, found)
	})

	return hash, found
}

func (c *SharedCache) Node(kind syntax.Kind, children []Child) (uint64, *Node) {
	if len(children) > c.maxChildren {
		c.uncacheableCount.Add(1)
		return UNCACHEABLE, newNodeFromChildren(kind, children)
	}

	hash, ok := nodeHash(kind, children)
	if !ok {
		c.uncacheableCount.Add(1)
		return UNCACHEABLE, newNodeFromChildren(kind, children)
	}

	var found *Node

	c.nodes.Upsert(hash, nil, func(exists bool, bucket []*Node, _ []*Node) []*Node {
		for _, node := range bucket {
			if sameNode(node, kind, children) {
				found = node
				c.nodeHits.Add(1)
				return bucket
			}
		}
		found = newNodeFromChildren(kind, children)
		c.nodeCount.Add(1)
		return append(bucket, found)
	})

	return hash, found
}

func (c *SharedCache) Stats() CacheStats {
	return CacheStats{
		Tokens:      c.tokenCount.Load(),
		Nodes:       c.nodeCount.Load(),
		TokenHits:   c.tokenHits.Load(),
		NodeHits:    c.nodeHits.Load(),
		Uncacheable: c.uncacheableCount.Load(),
	}
}
