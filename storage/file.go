package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Save writes data to Dir/key, creating Dir when missing.
func (f *FileSink) Save(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	return os.WriteFile(filepath.Join(f.Dir, filepath.Base(key)), data, 0o644)
}
