// Package server accepts job-control requests on the daemon socket. Every
// connection carries exactly one request and one response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"copyd/internal/config"
	"copyd/internal/interfaces"
	"copyd/internal/protocol"
	"copyd/internal/queue"
)

type Server struct {
	config *config.Config
	queue  interfaces.JobQueue

	mu       sync.Mutex
	listener net.Listener
	socket   string
	closing  bool
	conns    sync.WaitGroup
}

func New(cfg *config.Config, q interfaces.JobQueue) *Server {
	return &Server{config: cfg, queue: q}
}

// Listen binds the configured network address. A stale unix socket left by a
// previous run is removed first.
func (s *Server) Listen() error {
	cfg := s.config.GetDaemon()

	if cfg.Network == "unix" {
		if err := prepareSocket(cfg.Address); err != nil {
			return err
		}
	}

	listener, err := net.Listen(cfg.Network, cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s %s: %w", cfg.Network, cfg.Address, err)
	}

	if cfg.Network == "unix" {
		if err := os.Chmod(cfg.Address, os.FileMode(cfg.SocketMode)); err != nil {
			listener.Close()
			return fmt.Errorf("failed to set socket permissions: %w", err)
		}
	}

	s.mu.Lock()
	s.listener = listener
	if cfg.Network == "unix" {
		s.socket = cfg.Address
	}
	s.mu.Unlock()

	slog.Info("protocol server listening", "network", cfg.Network, "address", listener.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown is called.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return fmt.Errorf("server is not listening")
	}

	var tempDelay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosing() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else if tempDelay *= 2; tempDelay > time.Second {
					tempDelay = time.Second
				}
				slog.Warn("socket accept error", "error", err, "retry_in", tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		tempDelay = 0

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closing || s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	err := s.listener.Close()
	socket := s.socket
	s.mu.Unlock()

	if socket != "" {
		if rmErr := os.Remove(socket); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove socket", "path", socket, "error", rmErr)
		}
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("timeout waiting for connections to finish")
		return ctx.Err()
	}

	slog.Info("protocol server stopped")
	return err
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	cfg := s.config.GetDaemon()
	remote := conn.RemoteAddr().String()

	if err := conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout)); err != nil {
		slog.Warn("failed to set read deadline", "remote_addr", remote, "error", err)
	}

	var reply interface{}
	var kind protocol.Kind

	op, err := readRequest(conn, cfg.MaxRequestBytes())
	if err != nil {
		slog.Warn("invalid request", "remote_addr", remote, "error", err)
		reply = protocol.FailureMessage("invalid request: " + err.Error())
	} else {
		kind = op.Kind()
		reply = s.dispatch(op)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(cfg.ReadTimeout)); err != nil {
		slog.Warn("failed to set write deadline", "remote_addr", remote, "error", err)
	}
	if err := json.NewEncoder(conn).Encode(reply); err != nil {
		slog.Error("failed to write response", "remote_addr", remote, "error", err)
		return
	}
	drain(conn)

	slog.Debug("request handled",
		"remote_addr", remote,
		"request_type", kind,
		"duration", time.Since(start))
}

func readRequest(r io.Reader, limit int64) (protocol.Operation, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(io.LimitReader(r, limit)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("request incomplete or larger than %d bytes", limit)
		}
		return nil, err
	}
	return protocol.ParseRequest(raw)
}

// drain half-closes conn and discards unread request bytes until the client
// hangs up. Closing with unread input resets the connection, which can
// discard the reply before the client reads it.
func drain(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		cw.CloseWrite()
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	io.Copy(io.Discard, io.LimitReader(conn, 1<<20))
}

// dispatch runs op against the queue and builds the wire reply.
func (s *Server) dispatch(op protocol.Operation) interface{} {
	switch o := op.(type) {
	case protocol.Create:
		job, err := s.queue.Create(o.Source, o.Destination)
		if err != nil {
			var rejected *queue.AdmissionError
			if errors.As(err, &rejected) {
				return protocol.MessagePayload{Message: rejected.Reason}
			}
			slog.Error("failed to create job", "source", o.Source, "destination", o.Destination, "error", err)
			return protocol.FailureMessage(err.Error())
		}
		return protocol.CreatedPayload{JobID: job.ID}

	case protocol.Suspend:
		return s.control(o.JobID, "suspended", s.queue.Suspend)
	case protocol.Resume:
		return s.control(o.JobID, "resumed", s.queue.Resume)
	case protocol.Cancel:
		return s.control(o.JobID, "cancelled", s.queue.Cancel)

	case protocol.Progress:
		summary, err := s.queue.Snapshot(o.JobID)
		if err != nil {
			return protocol.FailureMessage(err.Error())
		}
		return summary

	case protocol.List:
		jobs := s.queue.List()
		if jobs == nil {
			jobs = []protocol.JobSummary{}
		}
		return jobs
	}
	return protocol.FailureMessage(fmt.Sprintf("unsupported request_type %q", op.Kind()))
}

func (s *Server) control(id, done string, action func(string) error) interface{} {
	if err := action(id); err != nil {
		return protocol.FailureMessage(err.Error())
	}
	return protocol.MessagePayload{Message: fmt.Sprintf("Job %s %s", id, done)}
}

// prepareSocket creates the socket directory and removes a stale socket.
func prepareSocket(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat socket: %w", err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("refusing to remove %s: not a socket", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}
