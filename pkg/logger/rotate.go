package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileRotator is a zapcore.WriteSyncer that rotates the underlying file by
// size or by calendar day, cycling through a bounded sequence range so the
// directory never accumulates more than maxFiles files per day.
type fileRotator struct {
	mu sync.Mutex

	dir      string
	prefix   string
	maxBytes int64
	maxFiles int

	day  string
	seq  int
	size int64
	f    *os.File
}

func newFileRotator(dir, prefix string, maxBytes int64, maxFiles int) (*fileRotator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}
	r := &fileRotator{dir: dir, prefix: prefix, maxBytes: maxBytes, maxFiles: maxFiles}
	r.day = time.Now().Format("2006-01-02")
	if err := r.openCurrent(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRotator) openCurrent() error {
	if r.f != nil {
		r.f.Close()
	}
	name := filepath.Join(r.dir, fmt.Sprintf("%s-%s.%d.log", r.prefix, r.day, r.seq))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", name, err)
	}
	r.f = f
	r.size = 0
	return nil
}

// Write implements io.Writer. It rotates before writing if today's date
// differs from the file currently open, or if p would push the current
// file past maxBytes. The sequence number wraps modulo maxFiles, so past
// that count a same-day rotation truncates and reuses the oldest file.
func (r *fileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	switch {
	case today != r.day:
		r.day = today
		r.seq = 0
		if err := r.openCurrent(); err != nil {
			return 0, err
		}
	case r.size+int64(len(p)) > r.maxBytes:
		r.seq = (r.seq + 1) % r.maxFiles
		if err := r.openCurrent(); err != nil {
			return 0, err
		}
	}

	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

// Sync implements zapcore.WriteSyncer.
func (r *fileRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	return r.f.Sync()
}

func (r *fileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}
