package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"copyd/internal/config"
)

// logSink is the writer behind the default logger. The log file is swapped
// under mu, so loggers still holding a previous handler never write to a
// closed file.
type logSink struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out == nil {
		return os.Stdout.Write(p)
	}
	return s.out.Write(p)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// apply installs the default logger described by logConfig.
func (s *logSink) apply(logConfig config.LoggingConfig) error {
	var out io.Writer = os.Stdout
	var file *os.File
	if logConfig.File != "" {
		if err := os.MkdirAll(filepath.Dir(logConfig.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logConfig.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(f, os.Stdout)
	}

	s.mu.Lock()
	previous := s.file
	s.file, s.out = file, out
	if previous != nil {
		previous.Close()
	}
	s.mu.Unlock()

	opts := &slog.HandlerOptions{Level: parseLevel(logConfig.Level)}

	var handler slog.Handler
	if logConfig.Format == "text" {
		handler = slog.NewTextHandler(s, opts)
	} else {
		handler = slog.NewJSONHandler(s, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func (s *logSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.out = os.Stdout
}
