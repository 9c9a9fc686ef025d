package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoBlocks(t *testing.T) {
	cases := []string{
		"",
		"No code here, just prose.",
		"Several\nlines\nof\nexplanation.",
	}
	for _, text := range cases {
		assert.Empty(t, Parse(text), "input %q", text)
	}
}

func TestParse_SingleUpdate(t *testing.T) {
	updates := Parse("update.txt\n```\nhello\n```\n")

	require.Len(t, updates, 1)
	assert.Equal(t, "update.txt", updates[0].Path)
	assert.Equal(t, "hello", updates[0].Content)
}

func TestParse_ProseIsNotAFilename(t *testing.T) {
	response := "Fixed the bug\n\na.py\n```\nprint(1)\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "a.py", updates[0].Path)
	assert.Equal(t, "print(1)", updates[0].Content)
}

func TestParse_LanguageTagIgnored(t *testing.T) {
	response := "main.go\n```go\npackage main\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "main.go", updates[0].Path)
	assert.Equal(t, "package main", updates[0].Content)
}

func TestParse_MultipleUpdatesInDocumentOrder(t *testing.T) {
	response := "a.txt\n```\none\n```\n\nSome prose between blocks.\n\nb.txt\n```\ntwo\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 2)
	assert.Equal(t, "a.txt", updates[0].Path)
	assert.Equal(t, "one", updates[0].Content)
	assert.Equal(t, "b.txt", updates[1].Path)
	assert.Equal(t, "two", updates[1].Content)
}

func TestParse_DuplicateFilenameBothReturned(t *testing.T) {
	response := "a.txt\n```\nfirst\n```\n\na.txt\n```\nsecond\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 2)
	assert.Equal(t, "first", updates[0].Content)
	assert.Equal(t, "second", updates[1].Content)
}

func TestParse_AnonymousBlockSkipped(t *testing.T) {
	// A fence with no preceding filename line is not a file update, and its
	// body must not be scanned for filenames.
	response := "Example output:\n\n```\nnot-a-file.txt\n```\nsome trailing prose\n"

	// "Example output:" is followed by a blank line, so the block is anonymous.
	assert.Empty(t, Parse(response))
}

func TestParse_InternalBlankLinesPreserved(t *testing.T) {
	response := "a.py\n```\ndef f():\n\n    return 1\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "def f():\n\n    return 1", updates[0].Content)
}

func TestParse_TrailingWhitespaceTrimmed(t *testing.T) {
	response := "a.txt\n```\ncontent\n\n   \n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "content", updates[0].Content)
}

func TestParse_FilenameLineTrimmed(t *testing.T) {
	response := "  spaced.txt  \n```\nx\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "spaced.txt", updates[0].Path)
}

func TestParse_FenceIsNotAFilename(t *testing.T) {
	// Two adjacent blocks: the closing fence of the first must not become
	// the filename of the second.
	response := "a.txt\n```\none\n```\n```\ntwo\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "a.txt", updates[0].Path)
}

func TestParse_UnterminatedBlockDiscarded(t *testing.T) {
	response := "a.txt\n```\nincomplete content"

	assert.Empty(t, Parse(response))
}

func TestParse_OpenerWithTagInsideBlockIsContent(t *testing.T) {
	// A tagged fence inside a named block is body content; only a bare
	// fence closes the block.
	response := "doc.md\n```\nintro\n```go\ncode\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "intro\n```go\ncode", updates[0].Content)
}

func TestParse_EmptyContent(t *testing.T) {
	response := "empty.txt\n```\n```\n"

	updates := Parse(response)

	require.Len(t, updates, 1)
	assert.Equal(t, "empty.txt", updates[0].Path)
	assert.Equal(t, "", updates[0].Content)
}
