package green

import (
	"github.com/viletech/doomfront/internal/syntax"
)

// A LocalCache interns tokens and small nodes. It is not safe for concurrent
// use but can be reused by successive parses on the same goroutine.
type LocalCache struct {
	maxChildren int
	tokens      map[uint64][]*Token
	nodes       map[uint64][]*Node
	stats       CacheStats
}

func NewLocalCache(opts ...CacheOptions) *LocalCache {
	var opt CacheOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	return &LocalCache{
		maxChildren: opt.maxChildren(),
		tokens:      make(map[uint64][]*Token),
		nodes:       make(map[uint64][]*Node),
	}
}

func (c *LocalCache) Token(kind syntax.Kind, text string) (uint64, *Token) {
	hash := tokenHash(kind, text)

	bucket := c.tokens[hash]
	for _, token := range bucket {
		if token.kind == kind && token.text == text {
			c.stats.TokenHits++
			return hash, token
		}
	}

	token := NewToken(kind, text)
	c.tokens[hash] = append(bucket, token)
	c.stats.Tokens++
	return hash, token
}

func (c *LocalCache) Node(kind syntax.Kind, children []Child) (uint64, *Node) {
	if len(children) > c.maxChildren {
		c.stats.Uncacheable++
		return UNCACHEABLE, newNodeFromChildren(kind, children)
	}

	hash, ok := nodeHash(kind, children)
	if !ok {
		c.stats.Uncacheable++
		return UNCACHEABLE, newNodeFromChildren(kind, children)
	}

	bucket := c.nodes[hash]
	for _, node := range bucket {
		if sameNode(node, kind, children) {
			c.stats.NodeHits++
			return hash, node
		}
	}

	node := newNodeFromChildren(kind, children)
	c.nodes[hash] = append(bucket, node)
	c.stats.Nodes++
	return hash, node
}

func (c *LocalCache) Stats() CacheStats {
	return c.stats
}
