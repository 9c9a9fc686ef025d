package client

import (
	"context"
	"strings"
)

// StreamHandler provides callbacks for consuming a stream incrementally.
type StreamHandler struct {
	// OnText is called for each text fragment, in arrival order, before
	// the stream resolves.
	OnText func(text string)

	// OnError is called when the stream terminates with an error.
	OnError func(err error)
}

// ProcessStream consumes a streaming response with the given handler and
// returns the accumulated text. Cancelling ctx stops consumption.
func ProcessStream(ctx context.Context, sr *StreamingResponse, handler *StreamHandler) (string, error) {
	var b strings.Builder

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case chunk, ok := <-sr.Chunks:
			if !ok {
				return b.String(), nil
			}
			if chunk.Err != nil {
				if handler.OnError != nil {
					handler.OnError(chunk.Err)
				}
				return "", chunk.Err
			}
			if chunk.Text != "" {
				b.WriteString(chunk.Text)
				if handler.OnText != nil {
					handler.OnText(chunk.Text)
				}
			}
			if chunk.Done {
				return b.String(), nil
			}
		}
	}
}
