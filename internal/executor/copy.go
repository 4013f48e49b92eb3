package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"copyd/internal/config"
	"copyd/internal/models"

	"golang.org/x/time/rate"
)

// CopyExecutor copies a file or directory tree in fixed-size chunks, counting
// every chunk written on the job. A job interrupted by cancellation can be
// executed again and continues from its byte offset.
type CopyExecutor struct {
	config *config.Config

	mu      sync.Mutex
	limiter *rate.Limiter
	limit   int64
}

func NewCopyExecutor(cfg *config.Config) *CopyExecutor {
	return &CopyExecutor{config: cfg}
}

// entry is one item of a copy plan.
type entry struct {
	source      string
	destination string
	size        int64
	dir         bool
}

type plan struct {
	entries []entry
	total   int64
	files   int
}

// Execute runs the copy until it finishes, fails or ctx is cancelled. On
// cancellation the bytes already written are flushed and ctx.Err() is returned.
func (e *CopyExecutor) Execute(ctx context.Context, job *models.Job) error {
	start := time.Now()
	slog.Info("starting copy", "job_id", job.ID, "source", job.Source, "destination", job.Destination)

	p, err := buildPlan(job.Source, job.Destination)
	if err != nil {
		return fmt.Errorf("failed to plan copy: %w", err)
	}
	job.SetTotal(p.total)

	bufferSize := e.config.GetCopy().BufferBytes()
	limiter := e.bandwidthLimiter(bufferSize)
	buf := make([]byte, bufferSize)

	offset := job.Offset()
	resumed := offset > 0

	for _, item := range p.entries {
		if item.dir {
			if err := os.MkdirAll(item.destination, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", item.destination, err)
			}
			continue
		}

		if offset > 0 && offset >= item.size {
			// Finished before the job was interrupted.
			offset -= item.size
			continue
		}

		if err := e.copyFile(ctx, job, item, offset, buf, limiter); err != nil {
			return err
		}
		offset = 0
	}

	slog.Info("copy finished",
		"job_id", job.ID,
		"files", p.files,
		"bytes", p.total,
		"resumed", resumed,
		"duration", time.Since(start))
	return nil
}

func (e *CopyExecutor) copyFile(ctx context.Context, job *models.Job, item entry, offset int64, buf []byte, limiter *rate.Limiter) error {
	src, err := os.Open(item.source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(item.destination), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	dst, err := os.OpenFile(item.destination, os.O_WRONLY|os.O_CREATE, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}
	defer dst.Close()

	// Anything past the offset was never counted, so rewrite it.
	if err := dst.Truncate(offset); err != nil {
		return fmt.Errorf("failed to truncate destination: %w", err)
	}
	if offset > 0 {
		if _, err := src.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek source: %w", err)
		}
		if _, err := dst.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek destination: %w", err)
		}
		slog.Debug("resuming file", "job_id", job.ID, "file", item.source, "offset", offset)
	}

	for {
		if err := ctx.Err(); err != nil {
			return e.stop(dst, err)
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if limiter != nil {
				if err := limiter.WaitN(ctx, n); err != nil {
					// WaitN refuses early when the wait would pass the deadline.
					if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
						<-ctx.Done()
					}
					if ctx.Err() != nil {
						return e.stop(dst, ctx.Err())
					}
					return fmt.Errorf("bandwidth limiter: %w", err)
				}
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write destination: %w", err)
			}
			job.RecordWrite(n)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read source: %w", readErr)
		}
	}

	if err := dst.Sync(); err != nil {
		return fmt.Errorf("failed to flush destination: %w", err)
	}
	return nil
}

func (e *CopyExecutor) stop(dst *os.File, cause error) error {
	if err := dst.Sync(); err != nil {
		slog.Warn("failed to flush interrupted copy", "file", dst.Name(), "error", err)
	}
	return cause
}

// bandwidthLimiter returns the shared limiter for copy.bandwidth_limit, or nil
// when copies are unlimited. Limit changes from a config reload are applied here.
func (e *CopyExecutor) bandwidthLimiter(bufferSize int) *rate.Limiter {
	limit := e.config.GetCopy().BandwidthBytes()

	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 {
		e.limiter = nil
		e.limit = 0
		return nil
	}

	// Burst must cover one full chunk or WaitN fails.
	burst := int(limit)
	if burst < bufferSize {
		burst = bufferSize
	}

	if e.limiter == nil {
		e.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	} else if e.limit != limit || e.limiter.Burst() != burst {
		e.limiter.SetLimit(rate.Limit(limit))
		e.limiter.SetBurst(burst)
	}
	e.limit = limit
	return e.limiter
}

// buildPlan lists what to copy. Directory trees are walked in lexical order,
// so the plan is stable across a suspend and resume.
func buildPlan(source, destination string) (*plan, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return &plan{
			entries: []entry{{source: source, destination: destination, size: info.Size()}},
			total:   info.Size(),
			files:   1,
		}, nil
	}

	p := &plan{}
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destination, rel)

		switch {
		case d.IsDir():
			p.entries = append(p.entries, entry{source: path, destination: target, dir: true})
		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				return err
			}
			p.entries = append(p.entries, entry{source: path, destination: target, size: fi.Size()})
			p.total += fi.Size()
			p.files++
		default:
			slog.Debug("skipping non-regular file", "path", path, "type", d.Type().String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
