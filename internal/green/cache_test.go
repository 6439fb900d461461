package green

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSum builds Root(BinExpr(a + b), BinExpr(a + b)).
func buildSum(cache Cache) *Node {
	b := NewBuilder(cache)
	b.Open(kRoot)
	for i := 0; i < 2; i++ {
		b.Open(kBinExpr)
		b.Token(kIdent, "a")
		b.Token(kPlus, "+")
		b.Token(kIdent, "b")
		b.Close()
	}
	b.Close()
	return b.Finish()
}

func TestNoopCache(t *testing.T) {
	cache := NoopCache{}

	hash1, token1 := cache.Token(kIdent, "foobar")
	hash2, token2 := cache.Token(kIdent, "foobar")

	assert.Equal(t, UNCACHEABLE, hash1)
	assert.Equal(t, UNCACHEABLE, hash2)
	assert.NotSame(t, token1, token2)

	root := buildSum(cache)
	assert.NotSame(t, root.Child(0), root.Child(1))
}

func TestLocalCache(t *testing.T) {

	t.Run("tokens are interned", func(t *testing.T) {
		cache := NewLocalCache()

		hash1, token1 := cache.Token(kIdent, "foobar")
		hash2, token2 := cache.Token(kIdent, "foobar")
		hash3, token3 := cache.Token(kPlus, "foobar")

		assert.NotEqual(t, UNCACHEABLE, hash1)
		assert.Equal(t, hash1, hash2)
		assert.Same(t, token1, token2)
		assert.NotSame(t, token1, token3)
		assert.NotEqual(t, hash1, hash3)

		stats := cache.Stats()
		assert.EqualValues(t, 2, stats.Tokens)
		assert.EqualValues(t, 1, stats.TokenHits)
	})

	t.Run("identical subtrees share one allocation", func(t *testing.T) {
		cache := NewLocalCache()
		root := buildSum(cache)

		assert.Same(t, root.Child(0), root.Child(1))
		assert.EqualValues(t, 1, cache.Stats().NodeHits)
	})

	t.Run("two trees built with the same cache share subtrees", func(t *testing.T) {
		cache := NewLocalCache()
		root1 := buildSum(cache)
		root2 := buildSum(cache)

		assert.Same(t, root1, root2)
	})

	t.Run("two trees built with distinct caches are equal but not identical", func(t *testing.T) {
		root1 := buildSum(NewLocalCache())
		root2 := buildSum(NewLocalCache())

		assert.NotSame(t, root1, root2)
		assert.True(t, StructurallyEqual(root1, root2))
	})

	t.Run("nodes with too many children are not interned", func(t *testing.T) {
		cache := NewLocalCache()

		build := func() *Node {
			b := NewBuilder(cache)
			b.Open(kRoot)
			for i := 0; i < DEFAULT_MAX_INTERNED_CHILDREN+1; i++ {
				b.Token(kIdent, "a")
			}
			b.Close()
			return b.Finish()
		}

		root1 := build()
		root2 := build()

		assert.NotSame(t, root1, root2)
		assert.Same(t, root1.Child(0), root2.Child(3))
		assert.EqualValues(t, 2, cache.Stats().Uncacheable)
	})

	t.Run("configurable child limit", func(t *testing.T) {
		cache := NewLocalCache(CacheOptions{MaxInternedChildren: 5})

		children := make([]Child, 5)
		for i := range children {
			hash, token := cache.Token(kIdent, fmt.Sprint(i))
			children[i] = Child{hash, token}
		}

		hash1, node1 := cache.Node(kRoot, children)
		hash2, node2 := cache.Node(kRoot, children)
		assert.NotEqual(t, UNCACHEABLE, hash1)
		assert.Equal(t, hash1, hash2)
		assert.Same(t, node1, node2)
	})

	t.Run("an uncacheable child makes its parent uncacheable", func(t *testing.T) {
		cache := NewLocalCache()

		cachedHash, cached := cache.Token(kIdent, "a")
		uncached := NewToken(kIdent, "a")

		children := []Child{{cachedHash, cached}, {UNCACHEABLE, uncached}}

		hash1, node1 := cache.Node(kBinExpr, children)
		hash2, node2 := cache.Node(kBinExpr, children)

		assert.Equal(t, UNCACHEABLE, hash1)
		assert.Equal(t, UNCACHEABLE, hash2)
		assert.NotSame(t, node1, node2)

		//the sentinel propagates to the grandparent.
		hash3, _ := cache.Node(kRoot, []Child{{hash1, node1}})
		assert.Equal(t, UNCACHEABLE, hash3)
		assert.EqualValues(t, 0, cache.Stats().Nodes)
	})

	t.Run("children are compared by identity", func(t *testing.T) {
		cache := NewLocalCache()

		hashA, tokenA := cache.Token(kIdent, "a")
		hashB, tokenB := cache.Token(kIdent, "b")

		_, node1 := cache.Node(kGroup, []Child{{hashA, tokenA}})
		_, node2 := cache.Node(kGroup, []Child{{hashB, tokenB}})
		_, node3 := cache.Node(kRoot, []Child{{hashA, tokenA}})

		assert.NotSame(t, node1, node2)
		assert.NotSame(t, node1, node3)
	})
}

func TestSharedCache(t *testing.T) {

	t.Run("tokens are interned", func(t *testing.T) {
		cache := NewSharedCache()

		hash1, token1 := cache.Token(kIdent, "foobar")
		hash2, token2 := cache.Token(kIdent, "foobar")

		assert.Equal(t, hash1, hash2)
		assert.Same(t, token1, token2)

		stats := cache.Stats()
		assert.EqualValues(t, 1, stats.Tokens)
		assert.EqualValues(t, 1, stats.TokenHits)
	})

	t.Run("same hashes as LocalCache", func(t *testing.T) {
		shared := NewSharedCache()
		local := NewLocalCache()

		sharedHash, _ := shared.Token(kIdent, "foobar")
		localHash, _ := local.Token(kIdent, "foobar")
		assert.Equal(t, localHash, sharedHash)
	})

	t.Run("identical subtrees share one allocation", func(t *testing.T) {
		cache := NewSharedCache()
		root := buildSum(cache)

		assert.Same(t, root.Child(0), root.Child(1))
	})

	t.Run("an uncacheable child makes its parent uncacheable", func(t *testing.T) {
		cache := NewSharedCache()
		children := []Child{{UNCACHEABLE, NewToken(kIdent, "a")}}

		hash1, node1 := cache.Node(kGroup, children)
		hash2, node2 := cache.Node(kGroup, children)

		assert.Equal(t, UNCACHEABLE, hash1)
		assert.Equal(t, UNCACHEABLE, hash2)
		assert.NotSame(t, node1, node2)
		assert.EqualValues(t, 2, cache.Stats().Uncacheable)
	})

	t.Run("parallel builds", func(t *testing.T) {
		const GOROUTINE_COUNT = 16

		cache := NewSharedCache()
		roots := make([]*Node, GOROUTINE_COUNT)

		wg := new(sync.WaitGroup)
		wg.Add(GOROUTINE_COUNT)

		for i := 0; i < GOROUTINE_COUNT; i++ {
			go func(i int) {
				defer wg.Done()
				roots[i] = buildSum(cache)
			}(i)
		}
		wg.Wait()

		require.NotNil(t, roots[0])
		for _, root := range roots[1:] {
			assert.Same(t, roots[0], root)
		}

		stats := cache.Stats()
		assert.EqualValues(t, 3, stats.Tokens) //a, +, b
		assert.EqualValues(t, 2, stats.Nodes)  //BinExpr, Root
	})
}

func TestCacheStatsArithmetic(t *testing.T) {
	cache := NewSharedCache()
	buildSum(cache)
	before := cache.Stats()

	buildSum(cache)
	after := cache.Stats()

	delta := after.Sub(before)
	assert.Equal(t, CacheStats{TokenHits: 6, NodeHits: 3}, delta) //both BinExpr and Root
	assert.Equal(t, after, before.Add(delta))
}
