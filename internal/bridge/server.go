// Package bridge speaks a JSON-lines protocol with editor plugins over a
// pair of streams, usually the process's stdin and stdout. Each line is one
// Request or Response. Suggest requests run through a shared
// suggest.Coordinator, so a second suggest while one is in flight is dropped.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/alexanderramin/hedgehog/internal/preview"
	"github.com/alexanderramin/hedgehog/internal/suggest"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLineBytes bounds a single request line.
const MaxLineBytes = 1024 * 1024

// readerStopTimeout bounds how long a cancelled Serve waits for the input
// reader to return after closing in.
const readerStopTimeout = time.Second

// ErrRequestTooLarge is returned by Serve when a line exceeds MaxLineBytes.
var ErrRequestTooLarge = errors.New("request too large")

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Server handles one editor connection.
type Server struct {
	client   llm.Client
	logger   *zap.Logger
	surfaces suggest.SurfaceFactory
	coord    *suggest.Coordinator

	mu  sync.Mutex
	out io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithSurfaces replaces the default browser preview surface.
func WithSurfaces(f suggest.SurfaceFactory) Option {
	return func(s *Server) { s.surfaces = f }
}

// WithLogger sets the server logger. It is also handed to the coordinator.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a Server. coordOpts are passed to the shared coordinator.
func NewServer(client llm.Client, opts []Option, coordOpts ...suggest.Option) *Server {
	s := &Server{
		client: client,
		logger: zap.NewNop(),
		out:    io.Discard,
	}
	s.surfaces = s.browserSurface
	for _, opt := range opts {
		opt(s)
	}
	coordOpts = append([]suggest.Option{suggest.WithLogger(s.logger)}, coordOpts...)
	s.coord = suggest.New(client, s.surfaces, notifier{s}, coordOpts...)
	return s
}

// Serve reads requests from in and writes responses to out. When in is
// exhausted Serve waits for in-flight requests to finish. When ctx is done
// they are cancelled instead, and in is closed if it is an io.Closer so the
// pending read returns. In-flight requests have always finished once Serve
// returns. A read blocked on an in that cannot be closed, or whose Close does
// not interrupt Read, may outlive it.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.mu.Lock()
	s.out = out
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	readerDone := make(chan struct{})
	stopReader := func() {
		if c, ok := in.(io.Closer); ok {
			c.Close()
			select {
			case <-readerDone:
			case <-time.After(readerStopTimeout):
				s.logger.Debug("input reader still blocked after close")
			}
		}
	}
	go func() {
		defer close(readerDone)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-runCtx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			stopReader()
			return nil
		case err := <-scanErr:
			if err == nil {
				drained := make(chan struct{})
				go func() {
					wg.Wait()
					close(drained)
				}()
				select {
				case <-drained:
				case <-ctx.Done():
				}
				return nil
			}
			if errors.Is(err, bufio.ErrTooLong) {
				s.send(Response{Type: TypeError, Message: fmt.Sprintf("Request too large (max %d bytes)", MaxLineBytes)})
				return ErrRequestTooLarge
			}
			return err
		case line := <-lines:
			s.handleLine(runCtx, &wg, line)
		}
	}
}

func (s *Server) handleLine(ctx context.Context, wg *sync.WaitGroup, line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("invalid request", zap.Error(err))
		s.send(Response{Type: TypeError, Message: "invalid request: " + err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx = withRequestID(ctx, req.ID)

	switch req.Type {
	case TypePing:
		available := s.client.Available(ctx)
		s.send(Response{ID: req.ID, Type: TypePong, Available: &available})
	case TypeModels:
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleModels(ctx, req)
		}()
	case TypeSuggest:
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleSuggest(ctx, req)
		}()
	default:
		s.send(Response{ID: req.ID, Type: TypeError, Message: fmt.Sprintf("unknown request type %q", req.Type)})
	}
}

func (s *Server) handleModels(ctx context.Context, req Request) {
	models, err := s.client.Models(ctx)
	if err != nil {
		s.logger.Warn("listing models failed", zap.Error(err))
		s.send(Response{ID: req.ID, Type: TypeError, Message: "Failed to list models"})
		return
	}
	s.send(Response{ID: req.ID, Type: TypeModels, Models: models})
}

func (s *Server) handleSuggest(ctx context.Context, req Request) {
	buf := &remoteBuffer{
		id:   req.ID,
		path: req.Path,
		sel:  req.Selection,
		line: req.Line,
		send: s.send,
	}
	outcome := s.coord.Run(ctx, buf)
	s.logger.Debug("suggest finished", zap.String("id", req.ID), zap.String("outcome", string(outcome)))
	s.send(Response{ID: req.ID, Type: TypeDone, Outcome: string(outcome)})
}

func (s *Server) browserSurface(ctx context.Context) (gate.Surface, error) {
	id := requestID(ctx)
	return preview.NewBrowserSurface(
		preview.WithLogger(s.logger),
		preview.WithAnnounce(func(url string) {
			s.send(Response{ID: id, Type: TypePreview, Message: url})
		}),
	), nil
}

// send writes one response line. Writes are serialized across goroutines.
func (s *Server) send(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(data); err != nil {
		s.logger.Warn("writing response failed", zap.Error(err))
		return err
	}
	return nil
}

// notifier routes coordinator messages to the request that triggered them.
type notifier struct{ s *Server }

func (n notifier) Info(ctx context.Context, msg string) {
	n.s.send(Response{ID: requestID(ctx), Type: TypeInfo, Message: msg})
}

func (n notifier) Error(ctx context.Context, msg string) {
	n.s.send(Response{ID: requestID(ctx), Type: TypeError, Message: msg})
}

func (n notifier) Progress(ctx context.Context, msg string) func() {
	id := requestID(ctx)
	n.s.send(Response{ID: id, Type: TypeProgress, Message: msg})
	var once sync.Once
	return func() {
		once.Do(func() {
			n.s.send(Response{ID: id, Type: TypeProgress, Done: true})
		})
	}
}
