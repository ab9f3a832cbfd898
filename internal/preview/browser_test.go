package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postDecision(t *testing.T, base, command string) (*http.Response, decisionResponse) {
	t.Helper()
	resp, err := http.Post(base+"/decision", "application/json", strings.NewReader(`{"command":"`+command+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out decisionResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

// newRoutesServer serves the routes of a fresh surface and returns the
// server together with the token-scoped base URL.
func newRoutesServer(t *testing.T, r *gate.Resolver) (*httptest.Server, string) {
	t.Helper()
	page, err := RenderPage("foo()", "<b>bar()</b>")
	require.NoError(t, err)
	s := NewBrowserSurface()
	srv := httptest.NewServer(s.routes(page, r))
	t.Cleanup(srv.Close)
	return srv, srv.URL + "/" + s.token
}

func send(t *testing.T, method, url, contentType, origin, body string) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRoutes_IndexServesEscapedPage(t *testing.T) {
	_, base := newRoutesServer(t, gate.NewResolver())

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "&lt;b&gt;bar()&lt;/b&gt;")
	assert.NotContains(t, string(body), "<b>bar()</b>")
}

func TestRoutes_AcceptResolves(t *testing.T) {
	r := gate.NewResolver()
	_, base := newRoutesServer(t, r)

	resp, out := postDecision(t, base, "accept")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Resolved)
	assert.Equal(t, "accepted", out.Decision)
	d, ok := r.Decision()
	assert.True(t, ok)
	assert.Equal(t, gate.Accepted, d)
}

func TestRoutes_RejectsForeignRequests(t *testing.T) {
	scoped := func(path string) func(root, base string) string {
		return func(_, base string) string { return base + path }
	}

	tests := []struct {
		name        string
		url         func(root, base string) string
		contentType string
		origin      string
	}{
		{name: "plain text body", url: scoped("/decision"), contentType: "text/plain"},
		{name: "form body", url: scoped("/decision"), contentType: "application/x-www-form-urlencoded"},
		{name: "missing content type", url: scoped("/decision")},
		{name: "foreign origin", url: scoped("/decision"), contentType: "application/json", origin: "https://evil.example"},
		{name: "foreign origin dismiss", url: scoped("/dismiss"), contentType: "application/json", origin: "https://evil.example"},
		{
			name:        "no token",
			url:         func(root, _ string) string { return root + "/decision" },
			contentType: "application/json",
		},
		{
			name:        "wrong token",
			url:         func(root, _ string) string { return root + "/" + uuid.NewString() + "/decision" },
			contentType: "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gate.NewResolver()
			srv, base := newRoutesServer(t, r)

			status := send(t, http.MethodPost, tt.url(srv.URL, base), tt.contentType, tt.origin, `{"command":"accept"}`)

			assert.Equal(t, http.StatusForbidden, status)
			_, ok := r.Decision()
			assert.False(t, ok, "resolver must stay unresolved")
		})
	}
}

func TestRoutes_IndexRequiresToken(t *testing.T) {
	srv, base := newRoutesServer(t, gate.NewResolver())

	assert.Equal(t, http.StatusForbidden, send(t, http.MethodGet, srv.URL+"/", "", "", ""))
	assert.Equal(t, http.StatusForbidden, send(t, http.MethodGet, srv.URL+"/"+uuid.NewString()+"/", "", "", ""))
	assert.Equal(t, http.StatusOK, send(t, http.MethodGet, base+"/", "", "", ""))
}

func TestRoutes_SameOriginAccepted(t *testing.T) {
	r := gate.NewResolver()
	srv, base := newRoutesServer(t, r)

	status := send(t, http.MethodPost, base+"/decision", "application/json; charset=utf-8", srv.URL, `{"command":"accept"}`)

	assert.Equal(t, http.StatusOK, status)
	d, ok := r.Decision()
	assert.True(t, ok)
	assert.Equal(t, gate.Accepted, d)
}

func TestLoopbackHost(t *testing.T) {
	assert.True(t, loopbackHost("127.0.0.1:8080"))
	assert.True(t, loopbackHost("[::1]:8080"))
	assert.True(t, loopbackHost("localhost:8080"))
	assert.False(t, loopbackHost("evil.example:8080"))
	assert.False(t, loopbackHost("10.0.0.1"))
}

func TestRoutes_SecondDecisionIsNoop(t *testing.T) {
	r := gate.NewResolver()
	_, base := newRoutesServer(t, r)

	postDecision(t, base, "reject")
	_, out := postDecision(t, base, "accept")

	assert.False(t, out.Resolved)
	assert.Equal(t, "rejected", out.Decision)
	d, _ := r.Decision()
	assert.Equal(t, gate.Rejected, d)
}

func TestRoutes_UnknownCommand(t *testing.T) {
	r := gate.NewResolver()
	_, base := newRoutesServer(t, r)

	resp, _ := postDecision(t, base, "maybe")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, ok := r.Decision()
	assert.False(t, ok)
}

func TestRoutes_DismissRejects(t *testing.T) {
	r := gate.NewResolver()
	_, base := newRoutesServer(t, r)

	resp, err := http.Post(base+"/dismiss", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	d, ok := r.Decision()
	assert.True(t, ok)
	assert.Equal(t, gate.Rejected, d)
}

func TestBrowserSurface_ConfirmAcceptEndToEnd(t *testing.T) {
	urls := make(chan string, 1)
	s := NewBrowserSurface(WithAnnounce(func(u string) { urls <- u }))

	go func() {
		select {
		case u := <-urls:
			resp, err := http.Post(u+"decision", "application/json", strings.NewReader(`{"command":"accept"}`))
			if err == nil {
				resp.Body.Close()
			}
		case <-time.After(5 * time.Second):
		}
	}()

	d, err := gate.Confirm(context.Background(), s, "foo()", "bar()")

	require.NoError(t, err)
	assert.Equal(t, gate.Accepted, d)
}

func TestBrowserSurface_ContextCancelShutsDown(t *testing.T) {
	urls := make(chan string, 1)
	s := NewBrowserSurface(WithAnnounce(func(u string) { urls <- u }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Show(ctx, gate.Preview{Original: "a", Candidate: "b"}, gate.NewResolver())
	}()

	u := <-urls
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/[0-9a-f-]{36}/$`, u)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Show did not return after cancel")
	}

	_, err := http.Get(u)
	assert.Error(t, err, "server should be gone")
}

func TestBrowserSurface_ShowAfterCloseFails(t *testing.T) {
	s := NewBrowserSurface()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.Show(context.Background(), gate.Preview{}, gate.NewResolver())
	assert.ErrorIs(t, err, ErrClosed)
}
