package formatter

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := ansi.Strip(RenderTable(
		[]string{"MODEL", "IN USE"},
		[][]string{{"codegemma:latest", "✔"}, {"llama3", ""}},
	))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "MODEL"+strings.Repeat(" ", 13)+"IN USE", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat("─", len("codegemma:latest"))))
	assert.Equal(t, "codegemma:latest  ✔", lines[2])
	assert.Equal(t, "llama3"+strings.Repeat(" ", 12), lines[3])
}

func TestRenderTable_TruncatesLongCells(t *testing.T) {
	long := strings.Repeat("m", MaxCellWidth+10)
	out := ansi.Strip(RenderTable([]string{"MODEL"}, [][]string{{long}}))
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, long)
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestModelMatches(t *testing.T) {
	tests := []struct {
		installed  string
		configured string
		want       bool
	}{
		{installed: "codegemma", configured: "codegemma", want: true},
		{installed: "codegemma:latest", configured: "codegemma", want: true},
		{installed: "codegemma:7b", configured: "codegemma:7b", want: true},
		{installed: "codegemma:7b", configured: "codegemma", want: false},
		{installed: "codegemma:7b:latest", configured: "codegemma:7b", want: false},
		{installed: "llama3:latest", configured: "codegemma", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.installed+"/"+tt.configured, func(t *testing.T) {
			assert.Equal(t, tt.want, ModelMatches(tt.installed, tt.configured))
		})
	}
}

func TestFormatCheck(t *testing.T) {
	tests := []struct {
		name    string
		report  CheckReport
		want    []string
		notWant []string
	}{
		{
			name:    "unreachable",
			report:  CheckReport{Endpoint: "http://localhost:11434", Model: "codegemma"},
			want:    []string{"unreachable", "http://localhost:11434"},
			notWant: []string{"MODEL"},
		},
		{
			name:    "latest tag counts",
			report:  CheckReport{Endpoint: "e", Model: "codegemma", Available: true, Models: []string{"codegemma:latest"}},
			want:    []string{"reachable", "codegemma:latest", "✔"},
			notWant: []string{"not installed"},
		},
		{
			name:   "model missing",
			report: CheckReport{Endpoint: "e", Model: "starcoder", Available: true, Models: []string{"llama3"}},
			want:   []string{`Model "starcoder" is not installed.`},
		},
		{
			name:   "nothing installed",
			report: CheckReport{Endpoint: "e", Model: "m", Available: true},
			want:   []string{"No models installed."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(FormatCheck(tt.report))
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestFormatNotices(t *testing.T) {
	assert.Equal(t, "✔ Code suggestion applied!", ansi.Strip(FormatInfo("Code suggestion applied!")))
	assert.Equal(t, "✖ Failed", ansi.Strip(FormatError("Failed")))
}

type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestSpinner(t *testing.T) {
	w := &syncWriter{}
	stop := StartSpinner(w, "Getting code suggestion...")
	time.Sleep(2 * spinnerInterval)
	stop()
	stop()

	out := w.String()
	assert.Contains(t, ansi.Strip(out), "Getting code suggestion...")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"), "line is cleared on stop")
}
