// Package style provides shared UI styling primitives including colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(Red).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(Slate)
	targetStyle  = lipgloss.NewStyle().Foreground(Iris)
)

// Summary renders the one-line result of a build.
func Summary(target string, rebuilt, commands int, elapsed time.Duration, err error) string {
	if err != nil {
		return failureStyle.Render(Cross+" "+target) + mutedStyle.Render(" failed after "+elapsed.Round(time.Millisecond).String())
	}
	if rebuilt == 0 {
		return successStyle.Render(Check+" ") + targetStyle.Render(target) + mutedStyle.Render(" is up to date")
	}
	detail := fmt.Sprintf(" rebuilt %d target(s), ran %d command(s) in %s",
		rebuilt, commands, elapsed.Round(time.Millisecond))
	return successStyle.Render(Check+" ") + targetStyle.Render(target) + mutedStyle.Render(detail)
}
