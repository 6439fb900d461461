package green

import (
	"github.com/viletech/doomfront/internal/syntax"
)

var (
	_ = []Cache{NoopCache{}, (*LocalCache)(nil), (*SharedCache)(nil)}
)

// A Child is an element buffered by the Builder along with its structural hash.
type Child struct {
	Hash    uint64
	Element Element
}

// A Cache decides how the Builder allocates tokens and nodes. Implementations
// may return an existing element that is structurally identical to the
// requested one.
type Cache interface {
	// Token returns a token and its structural hash (UNCACHEABLE if not interned).
	Token(kind syntax.Kind, text string) (uint64, *Token)

	// Node returns a node and its structural hash (UNCACHEABLE if not interned).
	// children should not be retained.
	Node(kind syntax.Kind, children []Child) (uint64, *Node)
}

type CacheOptions struct {
	// Nodes with more children than MaxInternedChildren are never interned.
	// Defaults to DEFAULT_MAX_INTERNED_CHILDREN if <= 0.
	MaxInternedChildren int
}

func (o CacheOptions) maxChildren() int {
	if o.MaxInternedChildren <= 0 {
		return DEFAULT_MAX_INTERNED_CHILDREN
	}
	return o.MaxInternedChildren
}

type CacheStats struct {
	Tokens      int64 `json:"tokens"`
	Nodes       int64 `json:"nodes"`
	TokenHits   int64 `json:"tokenHits"`
	NodeHits    int64 `json:"nodeHits"`
	Uncacheable int64 `json:"uncacheable"`
}

func (s CacheStats) Add(other CacheStats) CacheStats {
	return CacheStats{
		Tokens:      s.Tokens + other.Tokens,
		Nodes:       s.Nodes + other.Nodes,
		TokenHits:   s.TokenHits + other.TokenHits,
		NodeHits:    s.NodeHits + other.NodeHits,
		Uncacheable: s.Uncacheable + other.Uncacheable,
	}
}

// Sub returns the difference between s and earlier stats of the same cache.
func (s CacheStats) Sub(earlier CacheStats) CacheStats {
	return CacheStats{
		Tokens:      s.Tokens - earlier.Tokens,
		Nodes:       s.Nodes - earlier.Nodes,
		TokenHits:   s.TokenHits - earlier.TokenHits,
		NodeHits:    s.NodeHits - earlier.NodeHits,
		Uncacheable: s.Uncacheable - earlier.Uncacheable,
	}
}

// NoopCache always allocates new elements.
type NoopCache struct{}

func (NoopCache) Token(kind syntax.Kind, text string) (uint64, *Token) {
	return UNCACHEABLE, NewToken(kind, text)
}

func (NoopCache) Node(kind syntax.Kind, children []Child) (uint64, *Node) {
	return UNCACHEABLE, newNodeFromChildren(kind, children)
}
