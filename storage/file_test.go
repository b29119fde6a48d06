package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "archive_sink_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	tests := []struct {
		name     string
		dir      string
		key      string
		data     []byte
		wantPath string
	}{
		{
			name:     "writes into existing dir",
			dir:      tmpDir,
			key:      "1700000000.gemini-2.0-flash.json",
			data:     []byte(`{"exchange_session": {}}`),
			wantPath: filepath.Join(tmpDir, "1700000000.gemini-2.0-flash.json"),
		},
		{
			name:     "creates missing dir",
			dir:      filepath.Join(tmpDir, "nested", "logs"),
			key:      "a.json",
			data:     []byte(`[]`),
			wantPath: filepath.Join(tmpDir, "nested", "logs", "a.json"),
		},
		{
			name:     "key path components are flattened",
			dir:      tmpDir,
			key:      "../escape.json",
			data:     []byte(`{}`),
			wantPath: filepath.Join(tmpDir, "escape.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewFileSink(tt.dir)
			require.NoError(t, sink.Save(context.Background(), tt.key, tt.data))

			got, err := os.ReadFile(tt.wantPath)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestTestSink(t *testing.T) {
	sink := NewTestSink()
	require.NoError(t, sink.Save(context.Background(), "k", []byte("v")))
	assert.Equal(t, []byte("v"), sink.Objects["k"])

	failing := NewTestSinkWithError()
	assert.Error(t, failing.Save(context.Background(), "k", []byte("v")))
	assert.Empty(t, failing.Objects)
}
