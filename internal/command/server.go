package command

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/metrics"
)

const (
	// maxLineBytes caps one command line. Anything larger is not a
	// plausible command and ends the connection.
	maxLineBytes = 64 * 1024

	writeTimeout = 5 * time.Second
)

// StatusSource answers query commands from a published snapshot, so
// get_status and ping never touch the render loop.
type StatusSource interface {
	Current() face.Status
}

// Server accepts command connections and feeds the queue. Each connection
// gets its own goroutine; replies are written only by that goroutine, so
// writes need no lock. Mutating commands go through the queue, query
// commands are answered in place.
type Server struct {
	queue  *Queue
	status StatusSource
	log    zerolog.Logger

	mu      sync.Mutex
	ln      net.Listener
	conns   map[string]net.Conn
	running bool

	wg sync.WaitGroup
}

func NewServer(queue *Queue, status StatusSource, log zerolog.Logger) *Server {
	return &Server{
		queue:  queue,
		status: status,
		log:    log.With().Str("component", "command").Logger(),
		conns:  make(map[string]net.Conn),
	}
}

// Start binds addr and begins accepting connections.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("command server already running")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("command listener: %w", err)
	}
	s.ln = ln
	s.running = true

	s.wg.Add(1)
	go s.acceptLoop(ln)

	s.log.Info().Str("addr", ln.Addr().String()).Msg("command server listening")
	return nil
}

// Addr is the bound listener address; nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop closes the listener and every live connection, then waits for the
// connection goroutines to drain.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ln := s.ln
	conns := make([]net.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	ln.Close()
	for _, c := range conns {
		c.Close()
	}
	s.wg.Wait()
	s.log.Info().Msg("command server stopped")
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		id := uuid.NewString()[:8]
		s.conns[id] = conn
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serve(id, conn)
	}
}

func (s *Server) serve(id string, conn net.Conn) {
	defer s.wg.Done()

	log := s.log.With().Str("conn", id).Str("remote", conn.RemoteAddr().String()).Logger()
	log.Info().Msg("client connected")
	metrics.ActiveConnections.Inc()

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		conn.Close()
		metrics.ActiveConnections.Dec()
		log.Info().Msg("client disconnected")
	}()

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		s.handleLine(conn, log, line)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Debug().Err(err).Msg("read loop ended")
	}
}

func (s *Server) handleLine(conn net.Conn, log zerolog.Logger, line []byte) {
	cmd, perr := Parse(line)
	if perr != nil {
		metrics.CommandsTotal.WithLabelValues("invalid", "error").Inc()
		log.Warn().Str("code", perr.Code).Str("detail", perr.Message).Msg("rejected command")
		s.reply(conn, log, reply{Status: "error", Error: perr.Code})
		return
	}

	metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), "ok").Inc()

	switch cmd.Kind {
	case KindGetStatus:
		s.reply(conn, log, statusReply{Result: "ok", Status: s.status.Current()})
	case KindPing:
		s.reply(conn, log, reply{Status: "ok", Pong: true})
	case KindShutdown:
		log.Info().Msg("shutdown requested")
		s.queue.Push(cmd)
		s.reply(conn, log, reply{Status: "ok"})
	default:
		s.queue.Push(cmd)
		s.reply(conn, log, reply{Status: "ok"})
	}
}

type reply struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Pong   bool   `json:"pong,omitempty"`
}

type statusReply struct {
	Result string `json:"status"`
	face.Status
}

func (s *Server) reply(conn net.Conn, log zerolog.Logger, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal reply")
		return
	}
	b = append(b, '\n')

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(b); err != nil {
		log.Debug().Err(err).Msg("write reply failed")
	}
}
