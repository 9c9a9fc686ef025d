// Package parse extracts file updates from free-form model replies.
//
// A file update is a line holding only a filename, immediately followed by a
// fenced code block. Everything else in the reply (prose, change summaries,
// anonymous code blocks) is ignored.
package parse

import "strings"

// FileUpdate is one (filename, content) pair recognized in a response.
type FileUpdate struct {
	// Path is the filename line, trimmed.
	Path string

	// Content is the block body, verbatim except for trailing-whitespace
	// trimming at the very end.
	Content string
}

const fence = "```"

type scanState int

const (
	seekingFilename scanState = iota
	inBlock
)

// Parse decomposes a completed response into file updates, in document order.
// Duplicate filenames are all returned; callers applying updates in order get
// last-write-wins behavior. A response with no recognized blocks yields nil,
// which is a valid outcome, not an error.
func Parse(response string) []FileUpdate {
	var updates []FileUpdate

	lines := strings.Split(response, "\n")

	state := seekingFilename
	var candidate string // last non-fence line seen while seeking
	var name string      // filename of the open block; empty for anonymous blocks
	var body []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch state {
		case seekingFilename:
			if isFenceOpen(trimmed) {
				// A block opens. It is a file update only if the previous
				// line was a plausible filename; otherwise the block is
				// anonymous and its body must be skipped, not scanned for
				// filenames.
				name = candidate
				candidate = ""
				body = body[:0]
				state = inBlock
				continue
			}
			if trimmed != "" {
				candidate = trimmed
			} else {
				candidate = ""
			}

		case inBlock:
			if trimmed == fence {
				if name != "" {
					updates = append(updates, FileUpdate{
						Path:    name,
						Content: trimTrailing(strings.Join(body, "\n")),
					})
				}
				name = ""
				state = seekingFilename
				continue
			}
			body = append(body, line)
		}
	}

	// An unterminated block is discarded: without a closing fence the
	// content cannot be taken as complete.
	return updates
}

// isFenceOpen reports whether a trimmed line opens a fenced block.
// Openers may carry a language tag, which is ignored.
func isFenceOpen(trimmed string) bool {
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	// The tag, if present, is a bare word: "```go", "```python".
	tag := trimmed[len(fence):]
	return !strings.Contains(tag, "`")
}

// trimTrailing removes trailing whitespace at the very end of a block body.
// Internal blank lines are preserved.
func trimTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
