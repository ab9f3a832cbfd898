// Package testutil holds test doubles shared across packages.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GenerateCall is one /api/generate request seen by FakeOllama.
type GenerateCall struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// FakeOllama is an httptest server speaking the two Ollama endpoints the
// client uses. It answers /api/generate with Response and /api/tags with
// Models, and records every generate call.
type FakeOllama struct {
	*httptest.Server

	mu       sync.Mutex
	response *string
	status   int
	models   []string
	calls    []GenerateCall
}

// OllamaOption configures a FakeOllama.
type OllamaOption func(*FakeOllama)

// WithResponse sets the generate reply text.
func WithResponse(text string) OllamaOption {
	return func(f *FakeOllama) { f.response = &text }
}

// WithoutResponse makes generate reply with no "response" field.
func WithoutResponse() OllamaOption {
	return func(f *FakeOllama) { f.response = nil }
}

// WithStatus makes every endpoint answer with status and an empty body.
func WithStatus(status int) OllamaOption {
	return func(f *FakeOllama) { f.status = status }
}

// WithModels sets the installed model list.
func WithModels(models ...string) OllamaOption {
	return func(f *FakeOllama) { f.models = models }
}

// NewFakeOllama starts a FakeOllama and closes it when the test ends. The
// test is skipped when no local listener can be opened.
func NewFakeOllama(t *testing.T, opts ...OllamaOption) *FakeOllama {
	t.Helper()
	empty := ""
	f := &FakeOllama{response: &empty, status: http.StatusOK}
	for _, opt := range opts {
		opt(f)
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	}()
	t.Cleanup(f.Close)
	return f
}

// Calls returns the generate requests received so far.
func (f *FakeOllama) Calls() []GenerateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GenerateCall(nil), f.calls...)
}

func (f *FakeOllama) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, response, models := f.status, f.response, f.models
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/generate" && r.Method == http.MethodPost:
		var call GenerateCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		body := map[string]any{"model": call.Model, "done": true}
		if response != nil {
			body["response"] = *response
		}
		writeJSON(w, body)

	case r.URL.Path == "/api/tags" && r.Method == http.MethodGet:
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		list := make([]map[string]string, 0, len(models))
		for _, m := range models {
			list = append(list, map[string]string{"name": m})
		}
		writeJSON(w, map[string]any{"models": list})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
