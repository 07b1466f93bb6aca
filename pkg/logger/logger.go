// Package logger provides a bounded, asynchronous log sink with a single
// consumer goroutine, matching the dispatcher/worker idiom used elsewhere
// in this module's reference corpus but specialized down to one worker
// draining one channel. Producers never block: a full queue drops the
// message and increments a counter instead.
package logger

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultQueueSize = 1024
	defaultMaxBytes  = 10 * 1024 * 1024
	defaultMaxFiles  = 8
)

type config struct {
	queueSize int
	maxBytes  int64
	maxFiles  int
	level     zapcore.Level
}

// Option configures a Logger at construction time.
type Option func(*config)

// WithQueueSize sets the bounded channel capacity. Put fails once the
// queue is full rather than waiting for the consumer to drain it.
func WithQueueSize(n int) Option { return func(c *config) { c.queueSize = n } }

// WithMaxBytes sets the per-file size cap that triggers rotation.
func WithMaxBytes(n int64) Option { return func(c *config) { c.maxBytes = n } }

// WithMaxFiles bounds how many sequence-numbered files exist per day
// before rotation starts truncating and reusing the oldest one.
func WithMaxFiles(n int) Option { return func(c *config) { c.maxFiles = n } }

// WithLevel sets the minimum level the consumer writes to disk.
func WithLevel(lvl zapcore.Level) Option { return func(c *config) { c.level = lvl } }

type entry struct {
	level zapcore.Level
	msg   string
}

// Logger is a process-wide singleton in typical use: one fileRotator, one
// consumer goroutine, one bounded channel. Put/Warnf/Errorf are safe to
// call from any number of producer goroutines concurrently.
type Logger struct {
	queue   chan entry
	quit    chan struct{}
	done    chan struct{}
	zl      *zap.Logger
	rotator *fileRotator
	dropped atomic.Uint64
}

// New starts a Logger writing rotating files named
// "<prefix>-<YYYY-MM-DD>.<seq>.log" into dir.
func New(dir, prefix string, opts ...Option) (*Logger, error) {
	cfg := config{
		queueSize: defaultQueueSize,
		maxBytes:  defaultMaxBytes,
		maxFiles:  defaultMaxFiles,
		level:     zapcore.InfoLevel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rotator, err := newFileRotator(dir, prefix, cfg.maxBytes, cfg.maxFiles)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), cfg.level)

	l := &Logger{
		queue:   make(chan entry, cfg.queueSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		zl:      zap.New(core),
		rotator: rotator,
	}
	go l.run()
	return l, nil
}

func (l *Logger) run() {
	defer close(l.done)
	for {
		select {
		case e := <-l.queue:
			l.write(e)
		case <-l.quit:
			l.drain()
			return
		}
	}
}

func (l *Logger) drain() {
	for {
		select {
		case e := <-l.queue:
			l.write(e)
		default:
			return
		}
	}
}

func (l *Logger) write(e entry) {
	switch e.level {
	case zapcore.WarnLevel:
		l.zl.Warn(e.msg)
	case zapcore.ErrorLevel:
		l.zl.Error(e.msg)
	default:
		l.zl.Info(e.msg)
	}
}

// Put enqueues msg at level without blocking. It reports false, and
// increments Dropped, if the queue is at capacity.
func (l *Logger) Put(level zapcore.Level, msg string) bool {
	select {
	case l.queue <- entry{level: level, msg: msg}:
		return true
	default:
		l.dropped.Add(1)
		return false
	}
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.Put(zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level. It satisfies graph.Warner.
func (l *Logger) Warnf(format string, args ...any) {
	l.Put(zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.Put(zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

// Dropped returns the number of messages discarded because the queue was
// full at the time of Put.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close stops the consumer goroutine after it drains whatever is already
// queued, then syncs and closes the underlying file.
func (l *Logger) Close() error {
	close(l.quit)
	<-l.done
	if err := l.zl.Sync(); err != nil {
		return err
	}
	return l.rotator.Close()
}
