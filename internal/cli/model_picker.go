package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/hedgehog/internal/cli/formatter"
	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errNoModels is returned when the server has nothing to choose from.
var errNoModels = errors.New("no models installed on the completion server")

// hedgehogHuhTheme returns a huh theme using the Gruvbox palette.
func hedgehogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// modelOptions lists installed models with the current one first and labelled.
func modelOptions(models []string, current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		if formatter.ModelMatches(m, current) {
			options = append([]huh.Option[string]{huh.NewOption(m+" (current)", m)}, options...)
			continue
		}
		options = append(options, huh.NewOption(m, m))
	}
	return options
}

// modelPickerForm builds the select form; result receives the choice.
func modelPickerForm(models []string, current string, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which model?").
				Options(modelOptions(models, current)...).
				Value(result),
		),
	).WithTheme(hedgehogHuhTheme()).WithShowHelp(false)
}

// chooseModel asks the user to pick one of the installed models.
func chooseModel(ctx context.Context, client llm.Client, current string) (string, error) {
	models, err := client.Models(ctx)
	if err != nil {
		return "", fmt.Errorf("listing models: %w", err)
	}
	if len(models) == 0 {
		return "", errNoModels
	}

	selected := current
	if err := modelPickerForm(models, current, &selected).RunWithContext(ctx); err != nil {
		return "", err
	}
	return selected, nil
}
