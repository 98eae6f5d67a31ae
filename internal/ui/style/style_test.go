package style_test

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/mymake/internal/ui/style"
)

func TestSummary(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	tests := []struct {
		name     string
		rebuilt  int
		commands int
		err      error
		want     string
	}{
		{name: "up to date", want: "✓ all is up to date"},
		{name: "rebuilt", rebuilt: 2, commands: 3, want: "✓ all rebuilt 2 target(s), ran 3 command(s) in 1.5s"},
		{name: "failed", err: errors.New("boom"), want: "✗ all failed after 1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := style.Summary("all", tt.rebuilt, tt.commands, 1500*time.Millisecond, tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
