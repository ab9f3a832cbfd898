package formatter

import (
	"fmt"
	"strings"
)

// FormatInfo renders a success or neutral notice.
func FormatInfo(msg string) string {
	return StyleGreen.Render("✔") + " " + msg
}

// FormatError renders an error notice.
func FormatError(msg string) string {
	return StyleRed.Render("✖") + " " + msg
}

// CheckReport is what `hedgehog check` found out about the server.
type CheckReport struct {
	Endpoint  string
	Model     string
	Available bool
	Models    []string
}

// FormatCheck renders a CheckReport. The configured model is marked in the
// model list and flagged when it is not installed.
func FormatCheck(r CheckReport) string {
	var b strings.Builder
	b.WriteString(Header("Completion server"))
	b.WriteString("\n")

	status := StyleGreen.Render("● reachable")
	if !r.Available {
		status = StyleRed.Render("● unreachable")
	}
	fmt.Fprintf(&b, "%s %s  %s\n", Dim("endpoint"), r.Endpoint, status)
	fmt.Fprintf(&b, "%s %s\n", Dim("model   "), Bold(r.Model))

	if !r.Available {
		return b.String()
	}

	b.WriteString("\n")
	if len(r.Models) == 0 {
		b.WriteString(StyleYellow.Render("No models installed.") + "\n")
		return b.String()
	}

	found := false
	rows := make([][]string, 0, len(r.Models))
	for _, m := range r.Models {
		mark := ""
		if ModelMatches(m, r.Model) {
			mark = StyleGreen.Render("✔")
			found = true
		}
		rows = append(rows, []string{m, mark})
	}
	b.WriteString(RenderTable([]string{"MODEL", "IN USE"}, rows))
	if !found {
		fmt.Fprintf(&b, "\n%s\n", StyleYellow.Render(fmt.Sprintf("Model %q is not installed.", r.Model)))
	}
	return b.String()
}

// ModelMatches reports whether an installed model satisfies the configured
// name. A bare name matches its ":latest" tag, the way Ollama resolves it.
func ModelMatches(installed, configured string) bool {
	if installed == configured {
		return true
	}
	return !strings.Contains(configured, ":") && installed == configured+":latest"
}
