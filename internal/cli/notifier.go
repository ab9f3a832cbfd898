package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/hedgehog/internal/cli/formatter"
)

// terminalNotifier prints coordinator messages. With animate set, progress
// is a spinner; otherwise it is a single dimmed line.
type terminalNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	animate bool
}

func (n *terminalNotifier) Info(_ context.Context, msg string) {
	n.println(formatter.FormatInfo(msg))
}

func (n *terminalNotifier) Error(_ context.Context, msg string) {
	n.println(formatter.FormatError(msg))
}

func (n *terminalNotifier) Progress(_ context.Context, msg string) func() {
	if n.animate {
		return formatter.StartSpinner(n.out, msg)
	}
	n.println(formatter.Dim(msg))
	return func() {}
}

func (n *terminalNotifier) println(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, s)
}
