// Package preview renders the confirmation surface as a local web page.
// The page is served on the loopback interface for the lifetime of one
// confirmation and shuts down as soon as the gate closes it.
package preview

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by Show on a surface that was already closed.
var ErrClosed = errors.New("preview surface closed")

const shutdownTimeout = 2 * time.Second

// BrowserSurface is a gate.Surface backed by a one-page HTTP server.
// Every route lives under a random token that only the announced URL
// carries.
type BrowserSurface struct {
	addr     string
	token    string
	announce func(url string)
	logger   *zap.Logger

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// Option configures a BrowserSurface.
type Option func(*BrowserSurface)

// WithAddr sets the listen address. The default picks a free loopback port.
func WithAddr(addr string) Option {
	return func(s *BrowserSurface) { s.addr = addr }
}

// WithAnnounce sets the callback that receives the page URL once the
// server is listening, typically to open a browser or tell the editor.
func WithAnnounce(fn func(url string)) Option {
	return func(s *BrowserSurface) { s.announce = fn }
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *BrowserSurface) { s.logger = logger }
}

// NewBrowserSurface creates an unopened surface.
func NewBrowserSurface(opts ...Option) *BrowserSurface {
	s := &BrowserSurface{
		addr:     "127.0.0.1:0",
		token:    uuid.NewString(),
		announce: func(string) {},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show serves the preview page until the surface is closed or ctx is done.
func (s *BrowserSurface) Show(ctx context.Context, p gate.Preview, r *gate.Resolver) error {
	page, err := RenderPage(p.Original, p.Candidate)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.routes(page, r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrClosed
	}
	s.srv = srv
	s.mu.Unlock()

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ln)
	}()

	s.announce("http://" + ln.Addr().String() + "/" + s.token + "/")

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Close()
		<-served
		return nil
	}
}

// Close shuts the server down. Calling it again is a no-op.
func (s *BrowserSurface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down preview server: %w", err)
	}
	return nil
}

type decisionRequest struct {
	Command string `json:"command"`
}

type decisionResponse struct {
	Resolved bool   `json:"resolved"`
	Decision string `json:"decision"`
}

func (s *BrowserSurface) routes(page []byte, r *gate.Resolver) http.Handler {
	router := chi.NewRouter()
	router.NotFound(forbid)
	router.MethodNotAllowed(forbid)

	router.Route("/{token}", func(router chi.Router) {
		router.Use(s.guard)

		router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.Write(page)
		})

		router.Post("/decision", func(w http.ResponseWriter, req *http.Request) {
			var body decisionRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				http.Error(w, "invalid body", http.StatusBadRequest)
				return
			}

			var d gate.Decision
			switch body.Command {
			case "accept":
				d = gate.Accepted
			case "reject":
				d = gate.Rejected
			default:
				http.Error(w, "unknown command", http.StatusBadRequest)
				return
			}

			won := r.Resolve(d)
			final, _ := r.Decision()
			if !won {
				s.logger.Debug("ignoring late decision", zap.String("command", body.Command))
			}
			writeJSON(w, decisionResponse{Resolved: won, Decision: final.String()})
		})

		router.Post("/dismiss", func(w http.ResponseWriter, _ *http.Request) {
			r.Resolve(gate.Rejected)
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return router
}

// guard admits only same-origin requests to a loopback host that carry the
// surface token. POST bodies must be declared as JSON.
func (s *BrowserSurface) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		token := chi.URLParam(req, "token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			s.logger.Debug("rejecting request without surface token", zap.String("path", req.URL.Path))
			forbid(w, req)
			return
		}
		if !loopbackHost(req.Host) {
			s.logger.Debug("rejecting request for foreign host", zap.String("host", req.Host))
			forbid(w, req)
			return
		}
		if origin := req.Header.Get("Origin"); origin != "" && origin != "http://"+req.Host {
			s.logger.Debug("rejecting cross-origin request", zap.String("origin", origin))
			forbid(w, req)
			return
		}
		if req.Method == http.MethodPost {
			mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				forbid(w, req)
				return
			}
		}
		next.ServeHTTP(w, req)
	})
}

func loopbackHost(hostport string) bool {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func forbid(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
