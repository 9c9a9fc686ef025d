package client

import (
	"context"
	"strings"

	"gopair/internal/chat"
)

// Client is the interface to a chat-completion provider.
type Client interface {
	// Chat sends the ordered messages and returns a streaming response.
	// Cancelling ctx tears down the in-flight request.
	Chat(ctx context.Context, messages []chat.Message) (*StreamingResponse, error)

	// Model returns the model identifier in use.
	Model() string

	// Close releases the client's resources.
	Close() error
}

// Chunk is a single incremental fragment of a streaming response.
type Chunk struct {
	// Text is the content of this fragment, possibly empty.
	Text string

	// Err terminates the stream when set.
	Err error

	// Done marks the final chunk.
	Done bool
}

// StreamingResponse delivers response fragments in arrival order.
type StreamingResponse struct {
	// Chunks receives fragments until the response completes; the channel
	// is closed after the final chunk.
	Chunks <-chan Chunk
}

// Collect drains the stream and returns the concatenated text.
// The result equals what incremental consumption would have printed:
// no fragment is dropped or reordered.
func (sr *StreamingResponse) Collect() (string, error) {
	var b strings.Builder
	for chunk := range sr.Chunks {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		b.WriteString(chunk.Text)
	}
	return b.String(), nil
}
