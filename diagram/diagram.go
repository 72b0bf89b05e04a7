// Package diagram renders textual diagram definitions to PNG images with
// an external converter, by default the Mermaid CLI run through npx.
//
// Every call produces a [Result] tagged with one [Outcome]. Failures are
// outcomes, not errors: the caller decides how a missing tool, a timeout
// or a converter error degrades in the document.
package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults for a Renderer.
const (
	DefaultTimeout = 30 * time.Second
	DefaultDPI     = 150
	DefaultScale   = 2
)

// DefaultCommand runs the Mermaid CLI through npx.
var DefaultCommand = []string{"npx", "-y", "@mermaid-js/mermaid-cli"}

// waitDelay bounds how long Run waits for output pipes after the converter
// has been killed.
const waitDelay = 2 * time.Second

// Outcome classifies a render attempt.
type Outcome int

const (
	// Empty means the definition was blank; no process was started.
	Empty Outcome = iota
	Rendered
	Failed
	TimedOut
	ToolMissing
)

func (o Outcome) String() string {
	switch o {
	case Empty:
		return "empty"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	case ToolMissing:
		return "tool missing"
	default:
		return "unknown"
	}
}

// Result is the outcome of one render. Path is set for Rendered; Message
// carries the converter's stderr (or "Unknown error") for Failed.
//
// A Rendered result owns its scratch files until Close is called.
type Result struct {
	Outcome Outcome
	Path    string
	Message string

	scratch []string
}

// Close removes the result's scratch files. Removal errors are ignored.
func (r *Result) Close() error {
	for _, f := range r.scratch {
		_ = os.Remove(f)
	}
	r.scratch = nil
	return nil
}

// Renderer runs the external converter.
type Renderer struct {
	// Command is the converter argv prefix; input, output, background,
	// width and scale flags are appended.
	Command []string
	Timeout time.Duration
	DPI     int
	Scale   int
	// TempDir holds scratch files; empty means os.TempDir.
	TempDir string

	logger *zap.Logger
}

// NewRenderer returns a Renderer with the default command and limits.
// A nil logger disables logging.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		Command: append([]string(nil), DefaultCommand...),
		Timeout: DefaultTimeout,
		DPI:     DefaultDPI,
		Scale:   DefaultScale,
		logger:  logger,
	}
}

// PixelWidth converts a width in inches to the converter's pixel width.
func (r *Renderer) PixelWidth(inches float64) int {
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return int(inches * float64(dpi))
}

// Render converts definition to a PNG sized for width inches. The call
// blocks until the converter exits, the timeout elapses or ctx is done.
// Scratch files are removed before Render returns unless the outcome is
// Rendered, in which case Result.Close removes them.
func (r *Renderer) Render(ctx context.Context, definition string, width float64) Result {
	if strings.TrimSpace(definition) == "" {
		return Result{Outcome: Empty}
	}
	if len(r.Command) == 0 || r.Command[0] == "" {
		return Result{Outcome: ToolMissing}
	}

	in, err := os.CreateTemp(r.TempDir, "docweave-*.mmd")
	if err != nil {
		return Result{Outcome: Failed, Message: fmt.Sprintf("creating scratch file: %v", err)}
	}
	input := in.Name()
	output := strings.TrimSuffix(input, ".mmd") + ".png"
	res := Result{scratch: []string{input, output}}

	_, werr := in.WriteString(definition)
	if cerr := in.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		res.Close()
		return Result{Outcome: Failed, Message: fmt.Sprintf("writing scratch file: %v", werr)}
	}

	res = r.run(ctx, res, input, output, width)
	if res.Outcome != Rendered {
		res.Close()
	}
	return res
}

func (r *Renderer) run(ctx context.Context, res Result, input, output string, width float64) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	scale := r.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := make([]string, 0, len(r.Command)+9)
	args = append(args, r.Command[1:]...)
	args = append(args,
		"-i", input,
		"-o", output,
		"-b", "white",
		"-w", strconv.Itoa(r.PixelWidth(width)),
		"-s", strconv.Itoa(scale),
	)

	cmd := exec.CommandContext(execCtx, r.Command[0], args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("diagram converter finished",
		zap.String("command", r.Command[0]),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	switch {
	case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
		res.Outcome = ToolMissing
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		res.Outcome = TimedOut
	case err != nil:
		res.Outcome = Failed
		res.Message = failureMessage(stderr.String())
	default:
		if _, statErr := os.Stat(output); statErr != nil {
			res.Outcome = Failed
			res.Message = failureMessage(stderr.String())
		} else {
			res.Outcome = Rendered
			res.Path = output
		}
	}
	return res
}

func failureMessage(stderr string) string {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return msg
	}
	return "Unknown error"
}
