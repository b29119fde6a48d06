package storage

import (
	"context"
	"errors"
	"sync"
)

// Sink persists opaque blobs under a key.
type Sink interface {
	Save(ctx context.Context, key string, data []byte) error
}

// TestSink is a simple in-memory implementation for testing
type TestSink struct {
	mu      sync.Mutex
	Objects map[string][]byte
	err     error
}

func NewTestSink() *TestSink {
	return &TestSink{Objects: map[string][]byte{}}
}

func NewTestSinkWithError() *TestSink {
	return &TestSink{Objects: map[string][]byte{}, err: errors.New("sink unavailable")}
}

func (t *TestSink) Save(ctx context.Context, key string, data []byte) error {
	if t.err != nil {
		return t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Objects[key] = append([]byte(nil), data...)
	return nil
}
