// Package pandoc implements the Converter interface by shelling out to the
// pandoc executable.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"pandochost/internal/domain/services"
)

// DefaultBinary is the pandoc executable looked up on PATH
const DefaultBinary = "pandoc"

// executor abstracts command execution for testing
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Converter runs pandoc as a child process per conversion.
// Stateless; safe for concurrent use.
type Converter struct {
	bin    string
	exec   executor
	logger *slog.Logger
}

// NewConverter creates a pandoc converter using the given binary name or path
func NewConverter(bin string, logger *slog.Logger) *Converter {
	return newConverter(bin, &osExecutor{}, logger)
}

func newConverter(bin string, ex executor, logger *slog.Logger) *Converter {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Converter{bin: bin, exec: ex, logger: logger}
}

// Available reports whether the pandoc binary can be found
func (c *Converter) Available() bool {
	_, err := c.exec.LookPath(c.bin)
	return err == nil
}

// Name returns the converter name for logging
func (c *Converter) Name() string {
	return "pandoc"
}

// ConvertText pipes job.Source through pandoc and returns stdout
func (c *Converter) ConvertText(ctx context.Context, job services.TextJob) (string, error) {
	args := buildArgs(job.From, job.To, job.ExtraArgs, "")

	var stdout bytes.Buffer
	if err := c.run(ctx, args, job.Source, &stdout); err != nil {
		return "", err
	}

	return stdout.String(), nil
}

// ConvertFile pipes job.Source through pandoc, writing to job.OutputPath
func (c *Converter) ConvertFile(ctx context.Context, job services.FileJob) error {
	if job.OutputPath == "" {
		return errors.New("output path is required for file conversion")
	}

	args := buildArgs(job.From, job.To, job.ExtraArgs, job.OutputPath)
	return c.run(ctx, args, job.Source, io.Discard)
}

func (c *Converter) run(ctx context.Context, args []string, source string, stdout io.Writer) error {
	c.logger.Debug("running pandoc", "bin", c.bin, "args", args)

	var stderr bytes.Buffer
	err := c.exec.Run(ctx, c.bin, args, strings.NewReader(source), stdout, &stderr)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s not found on PATH: %w", c.bin, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("pandoc interrupted: %w", ctxErr)
	}
	if detail := strings.TrimSpace(stderr.String()); detail != "" {
		return fmt.Errorf("%s (%w)", detail, err)
	}
	return fmt.Errorf("running %s: %w", c.bin, err)
}

// buildArgs assembles the pandoc command line. outputPath is empty for
// text mode, where the result is read from stdout.
func buildArgs(from, to string, extra []string, outputPath string) []string {
	args := make([]string, 0, 2+len(extra)+2)
	args = append(args, "--from="+from, "--to="+to)
	args = append(args, extra...)
	if outputPath != "" {
		args = append(args, "--output", outputPath)
	}
	return args
}
