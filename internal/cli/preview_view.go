package cli

import (
	"strings"

	"github.com/alexanderramin/hedgehog/internal/cli/formatter"
	"github.com/alexanderramin/hedgehog/internal/gate"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panes wider than this sit side by side; narrower terminals stack them.
const sideBySideWidth = 100

const (
	paneOriginal = iota
	paneCandidate
)

type previewKeys struct {
	Accept     key.Binding
	Reject     key.Binding
	Dismiss    key.Binding
	SwitchPane key.Binding
	Scroll     key.Binding
}

func defaultPreviewKeys() previewKeys {
	return previewKeys{
		Accept:     key.NewBinding(key.WithKeys("a", "y"), key.WithHelp("a", "accept")),
		Reject:     key.NewBinding(key.WithKeys("r", "n"), key.WithHelp("r", "reject")),
		Dismiss:    key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "dismiss")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Scroll:     key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
	}
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Reject, k.Dismiss, k.SwitchPane, k.Scroll}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// previewView shows the original text next to the suggestion and resolves
// the gate on the first accept, reject or dismiss.
type previewView struct {
	preview  gate.Preview
	resolver *gate.Resolver

	keys  previewKeys
	help  help.Model
	panes [2]viewport.Model
	focus int

	width  int
	height int
}

func newPreviewView(p gate.Preview, r *gate.Resolver) *previewView {
	v := &previewView{
		preview:  p,
		resolver: r,
		keys:     defaultPreviewKeys(),
		help:     help.New(),
		focus:    paneCandidate,
	}
	v.layout(80, 24)
	return v
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *previewView) Init() tea.Cmd {
	return nil
}

func (v *previewView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.layout(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Accept):
			return v.decide(gate.Accepted)
		case key.Matches(msg, v.keys.Reject), key.Matches(msg, v.keys.Dismiss):
			return v.decide(gate.Rejected)
		case key.Matches(msg, v.keys.SwitchPane):
			v.focus = 1 - v.focus
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.panes[v.focus], cmd = v.panes[v.focus].Update(msg)
	return v, cmd
}

func (v *previewView) decide(d gate.Decision) (tea.Model, tea.Cmd) {
	v.resolver.Resolve(d)
	return v, tea.Quit
}

func (v *previewView) View() string {
	original := v.renderPane(paneOriginal, "Original Code:")
	candidate := v.renderPane(paneCandidate, "Suggested Code:")

	var body string
	if v.width >= sideBySideWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, original, candidate)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, original, candidate)
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Review code suggestion"))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(v.help.View(v.keys))
	return b.String()
}

// ── layout ───────────────────────────────────────────────────────────────────

func (v *previewView) layout(width, height int) {
	v.width, v.height = width, height
	v.help.Width = width

	// Border plus horizontal padding on each pane.
	const chromeW, chromeH = 4, 3
	const reserved = 2 // header and help lines

	paneW := width - chromeW
	paneH := height - reserved - chromeH
	if width >= sideBySideWidth {
		paneW = width/2 - chromeW
	} else {
		paneH = (height-reserved)/2 - chromeH
	}
	paneW = max(paneW, 10)
	paneH = max(paneH, 1)

	texts := [2]string{v.preview.Original, v.preview.Candidate}
	for i := range v.panes {
		offset := v.panes[i].YOffset
		vp := viewport.New(paneW, paneH)
		vp.SetContent(displayText(texts[i]))
		vp.SetYOffset(offset)
		v.panes[i] = vp
	}
}

func (v *previewView) renderPane(i int, title string) string {
	border := formatter.ColorDim
	titleStyle := formatter.StyleDim
	if i == v.focus {
		border = formatter.ColorHeader
		titleStyle = formatter.StyleBold
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		PaddingLeft(1).
		PaddingRight(1)
	return style.Render(titleStyle.Render(title) + "\n" + v.panes[i].View())
}

// displayText makes model output safe to draw: control sequences are
// stripped and tabs expanded so the viewport measures lines correctly.
func displayText(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	if s == "" {
		return formatter.Dim("(empty)")
	}
	return s
}
