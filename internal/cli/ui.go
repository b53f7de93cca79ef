package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/codemeta/pkg/bulk"
)

// stdout receives user-facing output. Logs go to stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleIconSkipped = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSkipped = "-"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printMessages prints validation messages as indented warnings.
func printMessages(messages []string) {
	for _, m := range messages {
		fmt.Fprintln(stdout, "  "+styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(m))
	}
}

// =============================================================================
// Bulk Results
// =============================================================================

func statusIcon(status bulk.Status) string {
	switch status {
	case bulk.StatusSucceeded:
		return styleIconSuccess.Render(iconSuccess)
	case bulk.StatusWarned:
		return styleIconWarning.Render(iconWarning)
	case bulk.StatusFailed:
		return styleIconError.Render(iconError)
	}
	return styleIconSkipped.Render(iconSkipped)
}

// printResult prints one item result with its messages.
func printResult(r bulk.Result) {
	line := statusIcon(r.Status) + " " + r.ID
	if r.Output != "" && r.Output != r.Source && r.Output != r.ID {
		line += " " + StyleDim.Render(iconArrow+" "+r.Output)
	}
	fmt.Fprintln(stdout, line)
	if r.Error != "" {
		fmt.Fprintln(stdout, "  "+StyleError.Render(r.Error))
	}
	if r.Status != bulk.StatusSkipped {
		printMessages(r.Messages)
	} else {
		for _, m := range r.Messages {
			printDetail("%s", m)
		}
	}
}

// printSummary prints run counts on a single line.
func printSummary(s bulk.Summary) {
	parts := []string{fmt.Sprintf("%d items", s.Total)}
	add := func(n int, label string, style lipgloss.Style) {
		if n > 0 {
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, label)))
		}
	}
	add(s.Succeeded, "succeeded", StyleSuccess)
	add(s.Warned, "with warnings", StyleWarning)
	add(s.Failed, "failed", StyleError)
	add(s.Skipped, "skipped", StyleDim)
	fmt.Fprintln(stdout, strings.Join(parts, StyleDim.Render(" · ")))
}
