// Package generator invokes the Python composition scripts that synthesize
// the artworks. The scripts are a black box here: the package owns the argv
// contract and the stdout JSON contract, nothing about the synthesis itself.
package generator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Generation modes, one per composition script.
const (
	ModePalette     = "palette"      // Rencontres
	ModePaletteCrop = "palette_crop" // Rencontres Crop
	ModeCloud       = "cloud"        // Brumes
	ModeSpectrum    = "spectrum"     // Spectre
)

// modeSpec is the argv contract of one composition script: which script to
// run and how many colors it accepts. The arities differ per script: the
// palette scripts compose 1..8 families, cloud renders exactly one, and
// spectrum always covers the whole gamut and takes no color argument.
type modeSpec struct {
	script    string
	minColors int
	maxColors int
}

var modes = map[string]modeSpec{
	ModePalette:     {script: "generate_palette.py", minColors: 1, maxColors: 8},
	ModePaletteCrop: {script: "generate_palette_crop.py", minColors: 1, maxColors: 8},
	ModeCloud:       {script: "generate_cloud.py", minColors: 1, maxColors: 1},
	ModeSpectrum:    {script: "generate_spectrum.py", minColors: 0, maxColors: 0},
}

// Modes returns the known generation modes.
func Modes() []string {
	return []string{ModePalette, ModePaletteCrop, ModeCloud, ModeSpectrum}
}

// KnownMode reports whether mode has a composition script.
func KnownMode(mode string) bool {
	_, ok := modes[mode]
	return ok
}

// SelectionBounds returns the number of colors mode accepts, inclusive.
// ok is false for unknown modes.
func SelectionBounds(mode string) (minColors, maxColors int, ok bool) {
	spec, ok := modes[mode]
	if !ok {
		return 0, 0, false
	}
	return spec.minColors, spec.maxColors, true
}

// CheckSelection validates the selection size against the mode's contract,
// so a wrong arity fails here instead of surfacing as the script's raw
// rejection message.
func CheckSelection(mode string, colors []string) error {
	spec, ok := modes[mode]
	if !ok {
		return fmt.Errorf("unknown generation mode %q", mode)
	}
	n := len(colors)
	switch {
	case n < spec.minColors || n > spec.maxColors:
		if spec.maxColors == 0 {
			return fmt.Errorf("mode %s takes no color selection, got %d", mode, n)
		}
		if spec.minColors == spec.maxColors {
			return fmt.Errorf("mode %s takes exactly %d color, got %d", mode, spec.minColors, n)
		}
		return fmt.Errorf("mode %s takes %d to %d colors, got %d", mode, spec.minColors, spec.maxColors, n)
	}
	return nil
}

// Result is the parsed stdout contract of a composition script.
// TotalAvailable may exceed Count: the script deduplicates nuances while
// placing dots, so the artwork can claim more conceptual nuances than it
// renders.
type Result struct {
	Success        bool     `json:"success"`
	Count          int      `json:"count"`
	TotalAvailable int      `json:"total_available"`
	Colors         []string `json:"colors"`
	Preview        string   `json:"preview"`
	Full           string   `json:"full"`
	Error          string   `json:"error,omitempty"`
}

// GenerationError is an upstream failure reported by a script through its
// JSON error field. The message is displayable verbatim.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return e.Message
}

// Runner executes composition scripts as subprocesses.
type Runner struct {
	python  string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a runner. python is the interpreter binary, dir the
// directory holding the generate_*.py scripts. A zero timeout means 120s.
func NewRunner(python, dir string, timeout time.Duration, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{python: python, dir: dir, timeout: timeout, logger: logger}
}

// Generate runs the script for mode with the given color selection.
// full additionally requests the high-resolution render. The script's stderr
// progress lines are re-logged at debug level; its stdout must be a single
// JSON result object. A JSON error field is returned as *GenerationError.
func (r *Runner) Generate(ctx context.Context, mode string, colors []string, full bool) (*Result, error) {
	spec, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("unknown generation mode %q", mode)
	}
	if err := CheckSelection(mode, colors); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{filepath.Join(r.dir, spec.script)}
	if len(colors) > 0 {
		args = append(args, strings.Join(colors, ","))
	}
	if full {
		args = append(args, "--full")
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.python, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	r.logProgress(mode, &stderr)

	res, parseErr := parseResult(stdout.Bytes())
	if parseErr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("generate %s: %w", mode, ctx.Err())
		}
		if runErr != nil {
			return nil, fmt.Errorf("generate %s: %w\nstderr: %s", mode, runErr, tail(stderr.String(), 500))
		}
		return nil, fmt.Errorf("generate %s: parse output: %w", mode, parseErr)
	}

	if res.Error != "" {
		return nil, &GenerationError{Message: res.Error}
	}
	if !res.Success {
		return nil, fmt.Errorf("generate %s: script reported failure without error message", mode)
	}

	r.logger.Info("generation complete",
		"mode", mode,
		"colors", strings.Join(colors, ","),
		"count", res.Count,
		"total_available", res.TotalAvailable,
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func parseResult(out []byte) (*Result, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("empty output")
	}
	var res Result
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Runner) logProgress(mode string, stderr *bytes.Buffer) {
	sc := bufio.NewScanner(stderr)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			r.logger.Debug("generator", "mode", mode, "line", line)
		}
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n:]
}
