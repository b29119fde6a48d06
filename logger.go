package nutrilookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutrilookup/storage"
)

// ExchangeLogger is the interface for recording prompt/response exchanges with the generator.
type ExchangeLogger interface {
	LogExchange(exchange Exchange) error
}

// NewExchangeLogKey returns an object key based on a cleaned up model name or id to make it easier to identify transcripts produced with various models.
// Keys carry a millisecond timestamp and a random suffix so flushes within the same instant do not collide.
func NewExchangeLogKey(model string) string {
	if model == "" {
		model = "default"
	}
	return fmt.Sprintf(
		"%d.%s.%s.json",
		time.Now().UnixMilli(),
		strings.NewReplacer(":", "_", "/", "_").Replace(strings.ToLower(model)),
		uuid.NewString()[:8],
	)
}

// Exchange represents a single round trip to the generator
type Exchange struct {
	ID         string    `json:"id,omitempty"`
	Operation  string    `json:"operation"`
	Timestamp  time.Time `json:"timestamp"`
	Input      string    `json:"input,omitempty"`
	Prompt     string    `json:"prompt,omitempty"`
	Response   string    `json:"response,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Records    int       `json:"records,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// FileExchangeLogger logs to a writer, accumulating exchanges and flushing at the end
type FileExchangeLogger struct {
	mu        sync.Mutex
	exchanges []Exchange
	writer    io.Writer
}

// NewFileExchangeLogger creates a new writer-based exchange logger
func NewFileExchangeLogger(writer io.Writer) *FileExchangeLogger {
	return &FileExchangeLogger{
		exchanges: make([]Exchange, 0),
		writer:    writer,
	}
}

// LogExchange logs an exchange to the buffer (does not flush immediately)
func (l *FileExchangeLogger) LogExchange(exchange Exchange) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exchanges = append(l.exchanges, exchange)
	return nil
}

// Flush flushes all accumulated exchanges to the writer
func (l *FileExchangeLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := marshalSession(l.exchanges)
	if err != nil {
		return err
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write exchange log: %w", err)
	}

	l.exchanges = l.exchanges[:0]
	return nil
}

// ArchiveExchangeLogger buffers exchanges and writes them as one object per flush to a storage sink.
// It flushes on its own once flushEvery exchanges are buffered.
type ArchiveExchangeLogger struct {
	mu         sync.Mutex
	exchanges  []Exchange
	sink       storage.Sink
	model      string
	flushEvery int
}

func NewArchiveExchangeLogger(sink storage.Sink, model string, flushEvery int) *ArchiveExchangeLogger {
	return &ArchiveExchangeLogger{
		exchanges:  make([]Exchange, 0),
		sink:       sink,
		model:      model,
		flushEvery: flushEvery,
	}
}

func (l *ArchiveExchangeLogger) LogExchange(exchange Exchange) error {
	l.mu.Lock()
	l.exchanges = append(l.exchanges, exchange)
	full := l.flushEvery > 0 && len(l.exchanges) >= l.flushEvery
	l.mu.Unlock()

	if full {
		return l.Flush(context.Background())
	}
	return nil
}

// Flush writes buffered exchanges to the sink under a fresh key. An empty buffer is a no-op.
func (l *ArchiveExchangeLogger) Flush(ctx context.Context) error {
	l.mu.Lock()
	if len(l.exchanges) == 0 {
		l.mu.Unlock()
		return nil
	}
	pending := l.exchanges
	l.exchanges = make([]Exchange, 0)
	l.mu.Unlock()

	data, err := marshalSession(pending)
	if err != nil {
		l.requeue(pending)
		return err
	}

	key := NewExchangeLogKey(l.model)
	if err := l.sink.Save(ctx, key, data); err != nil {
		l.requeue(pending)
		return fmt.Errorf("failed to archive exchange log: %w", err)
	}

	slog.Info("ARCHIVE: Exchange log written", "key", key, "exchanges", len(pending))
	return nil
}

// requeue puts unsaved exchanges back ahead of anything logged since they were taken.
func (l *ArchiveExchangeLogger) requeue(pending []Exchange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exchanges = append(pending, l.exchanges...)
}

func marshalSession(exchanges []Exchange) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any{
		"exchange_session": map[string]any{
			"timestamp": time.Now(),
			"exchanges": exchanges,
		},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exchange log: %w", err)
	}
	return data, nil
}

// NoOpExchangeLogger is a logger that discards all log entries
type NoOpExchangeLogger struct{}

// NewNoOpExchangeLogger creates a new no-op exchange logger
func NewNoOpExchangeLogger() *NoOpExchangeLogger {
	return &NoOpExchangeLogger{}
}

// LogExchange discards the exchange (no-op)
func (nop *NoOpExchangeLogger) LogExchange(exchange Exchange) error {
	return nil
}

// StdoutExchangeLogger logs each exchange as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutExchangeLogger struct {
	writer io.Writer
}

// NewStdoutExchangeLogger creates a new stdout-based exchange logger
func NewStdoutExchangeLogger() *StdoutExchangeLogger {
	return &StdoutExchangeLogger{writer: os.Stdout}
}

// LogExchange writes the exchange as a JSON line
func (l *StdoutExchangeLogger) LogExchange(exchange Exchange) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return err
	}
	fmt.Fprintln(l.writer, string(data))
	return nil
}
