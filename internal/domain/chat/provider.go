package chat

import "context"

// Provider opens streaming answer generation against the inference backend.
type Provider interface {
	StreamQuery(ctx context.Context, query string) (Stream, error)
}

// Stream yields raw provider chunks in arrival order. Recv returns io.EOF on
// natural end-of-stream; any other error is a transport failure.
type Stream interface {
	Recv() (string, error)
	Close() error
}
