// Package detector provides environment detection for output mode selection.
package detector

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for build output.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePlain echoes commands and passes their output through unchanged.
	ModePlain
	// ModeLinear prefixes every line with its target and reports start and completion.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode based on the environment.
// CI runs get the linear mode; everything else stays plain.
func DetectEnvironment() OutputMode {
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModeLinear
	}
	return ModeAuto
}

// ResolveMode applies the user's --output flag to the detected mode.
// userFlag should be one of: "auto", "plain", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	mode := autoDetected
	switch userFlag {
	case "plain":
		mode = ModePlain
	case "linear", "ci":
		mode = ModeLinear
	}
	if mode == ModeAuto {
		return ModePlain
	}
	return mode
}

// ColorProfile returns the color profile for w. NO_COLOR and writers that are
// not terminals get plain ASCII.
func ColorProfile(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return termenv.Ascii
	}
	return termenv.ANSI
}
