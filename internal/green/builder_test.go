package green

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viletech/doomfront/internal/syntax"
)

const (
	kRoot syntax.Kind = iota + 1
	kBinExpr
	kIdent
	kPlus
	kGroup
)

func TestBuilder(t *testing.T) {

	t.Run("single node", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Token(kIdent, "a")
		b.Close()

		root := b.Finish()
		assert.Equal(t, kRoot, root.Kind())
		assert.Equal(t, 1, root.ChildCount())
		assert.Equal(t, "a", root.Text())
		assert.Equal(t, 1, root.TextLen())
	})

	t.Run("nested nodes", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Open(kBinExpr)
		b.Token(kIdent, "a")
		b.Token(kPlus, "+")
		b.Token(kIdent, "b")
		b.Close()
		b.Close()

		root := b.Finish()
		require.Equal(t, 1, root.ChildCount())

		bin := root.Child(0).(*Node)
		assert.Equal(t, kBinExpr, bin.Kind())
		assert.Equal(t, 3, bin.ChildCount())
		assert.Equal(t, "a+b", root.Text())
	})

	t.Run("empty root", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Close()

		root := b.Finish()
		assert.Equal(t, 0, root.ChildCount())
		assert.Equal(t, 0, root.TextLen())
	})

	t.Run("open at checkpoint", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)

		checkpoint := b.Checkpoint()
		b.Token(kIdent, "a")
		b.OpenAt(checkpoint, kBinExpr)
		b.Token(kPlus, "+")
		b.Token(kIdent, "b")
		b.Close()
		b.Close()

		root := b.Finish()
		require.Equal(t, 1, root.ChildCount())

		bin := root.Child(0).(*Node)
		assert.Equal(t, kBinExpr, bin.Kind())
		assert.Equal(t, "a+b", bin.Text())
	})

	t.Run("cancel checkpoint", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Token(kIdent, "a")
		checkpoint := b.Checkpoint()
		b.Token(kPlus, "+")
		b.Token(kIdent, "b")
		b.CancelCheckpoint(checkpoint)
		b.Close()

		root := b.Finish()
		assert.Equal(t, "a", root.Text())
	})

	t.Run("cancel", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Token(kIdent, "a")
		b.Open(kGroup)
		b.Token(kIdent, "b")
		b.Cancel(kBinExpr) //kind does not match: no effect.
		assert.Equal(t, 2, b.ParentCount())

		b.Cancel(kGroup)
		assert.Equal(t, 1, b.ParentCount())
		b.Close()

		root := b.Finish()
		assert.Equal(t, "a", root.Text())
	})

	t.Run("cancel if", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Open(kGroup)
		b.Token(kIdent, "b")
		b.CancelIf(func(k syntax.Kind) bool { return k == kGroup })
		b.Close()

		root := b.Finish()
		assert.Equal(t, 0, root.ChildCount())
	})

	t.Run("finishing with an open branch should panic", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Token(kIdent, "a")

		assert.PanicsWithError(t, "a branch was never closed (1 still open, innermost kind: 1)", func() {
			b.Finish()
		})
	})

	t.Run("finishing with two roots should panic", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Close()
		b.Open(kRoot)
		b.Close()

		assert.Panics(t, func() {
			b.Finish()
		})
	})

	t.Run("a token root should panic", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Token(kIdent, "a")

		assert.PanicsWithError(t, "a green token cannot be the root of a green tree", func() {
			b.Finish()
		})
	})

	t.Run("closing an absent node should panic", func(t *testing.T) {
		b := NewBuilder(nil)

		assert.Panics(t, func() {
			b.Close()
		})
	})

	t.Run("invalid checkpoint should panic", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Open(kRoot)
		b.Token(kIdent, "a")
		checkpoint := b.Checkpoint()
		b.Open(kGroup)
		b.Token(kIdent, "b")
		b.Close()
		b.Open(kGroup)

		//the checkpoint is before the first child of the current branch.
		assert.Panics(t, func() {
			b.OpenAt(checkpoint, kBinExpr)
		})
	})
}

func TestStructurallyEqual(t *testing.T) {
	build := func(cache Cache) *Node {
		b := NewBuilder(cache)
		b.Open(kRoot)
		b.Open(kBinExpr)
		b.Token(kIdent, "a")
		b.Token(kPlus, "+")
		b.Token(kIdent, "b")
		b.Close()
		b.Close()
		return b.Finish()
	}

	a := build(nil)
	b := build(nil)

	assert.NotSame(t, a, b)
	assert.True(t, StructurallyEqual(a, b))

	other := NewNode(kRoot, []Element{NewNode(kBinExpr, []Element{NewToken(kIdent, "a")})})
	assert.False(t, StructurallyEqual(a, other))
	assert.False(t, StructurallyEqual(NewToken(kIdent, "a"), NewToken(kIdent, "b")))
	assert.False(t, StructurallyEqual(NewToken(kIdent, "a"), NewNode(kIdent, []Element{NewToken(kIdent, "a")})))
}
