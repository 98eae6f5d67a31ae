// Package linear provides synchronous, line-oriented renderers for build output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/mymake/internal/adapters/detector"
	"go.trai.ch/mymake/internal/ui/style"
)

// Renderer prefixes every output line with the name of the target that
// produced it and reports when each target starts and finishes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	targets map[string]*targetState // spanID -> target state
	buffers map[string]*bytes.Buffer
}

type targetState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  termenv.NewOutput(stderr, termenv.WithProfile(detector.ColorProfile(stderr))),
		targets: make(map[string]*targetState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned targets.
func (r *Renderer) OnPlanEmit(targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(targets) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d target(s): %s\n",
		len(targets), strings.Join(targets, " "))
}

// OnTargetStart prints a start message.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets[spanID] = &targetState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Building...\n", prefix)
}

// OnTargetLog buffers data and prints complete lines with the target prefix.
func (r *Renderer) OnTargetLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.targets[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				rest := new(bytes.Buffer)
				rest.Write(line)
				r.buffers[spanID] = rest
			}
			break
		}
		r.printLineLocked(target.name, line)
	}
}

// OnTargetComplete flushes the remaining buffer and prints the outcome.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.targets[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(target.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", target.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Built in %v\n", prefix, symbol, duration)
	}

	delete(r.targets, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked prints any partial line left for spanID.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	target, ok := r.targets[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(target.name, buf.Bytes())
		buf.Reset()
	}
}

// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
