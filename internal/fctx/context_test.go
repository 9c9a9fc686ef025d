package fctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopair/internal/fs"
)

func newSet(t *testing.T) (*ActiveSet, *fs.MemoryFS) {
	t.Helper()
	store := fs.NewMemoryFS()
	return NewActiveSet(".", store, nil), store
}

func TestAdd_TracksInInsertionOrder(t *testing.T) {
	set, _ := newSet(t)

	_, err := set.Add("b.go")
	require.NoError(t, err)
	_, err = set.Add("a.go")
	require.NoError(t, err)

	assert.Equal(t, []string{"b.go", "a.go"}, set.Paths())
}

func TestAdd_DuplicateIsNoOp(t *testing.T) {
	set, _ := newSet(t)

	added, err := set.Add("a.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, added)

	added, err = set.Add("a.go")
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 1, set.Len())
}

func TestDrop(t *testing.T) {
	set, _ := newSet(t)
	_, err := set.Add("a.go")
	require.NoError(t, err)

	assert.True(t, set.Drop("a.go"))
	assert.False(t, set.Drop("a.go"))
	assert.Zero(t, set.Len())
}

func TestReadBlocks_SkipsUnreadableWithWarning(t *testing.T) {
	set, store := newSet(t)
	require.NoError(t, store.WriteFile("ok.go", []byte("package ok"), 0644))

	_, err := set.Add("ok.go")
	require.NoError(t, err)
	_, err = set.Add("missing.go")
	require.NoError(t, err)

	blocks, skipped := set.ReadBlocks()

	require.Len(t, blocks, 1)
	assert.Equal(t, "ok.go", blocks[0].Path)
	assert.Equal(t, []string{"missing.go"}, skipped)
}

func TestReadBlocks_RereadsDiskEveryCall(t *testing.T) {
	set, store := newSet(t)
	require.NoError(t, store.WriteFile("f.go", []byte("v1"), 0644))
	_, err := set.Add("f.go")
	require.NoError(t, err)

	blocks, _ := set.ReadBlocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "v1", blocks[0].Content)

	require.NoError(t, store.WriteFile("f.go", []byte("v2"), 0644))
	blocks, _ = set.ReadBlocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "v2", blocks[0].Content, "content must be recomputed from disk each turn")
}

func TestFormatBlocks_MatchesParserConvention(t *testing.T) {
	out := FormatBlocks([]Block{
		{Path: "a.txt", Content: "hello\n"},
		{Path: "b.txt", Content: "no trailing newline"},
	})

	assert.Equal(t, "a.txt\n```\nhello\n```\n\nb.txt\n```\nno trailing newline\n```\n\n", out)
}
