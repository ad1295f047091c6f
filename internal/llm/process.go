// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// executor abstracts command execution for testing.
type executor interface {
	// RunCombined runs the command and returns stdout and stderr
	// separately. The process is killed when ctx expires.
	RunCombined(ctx context.Context, name string, args []string) (stdout, stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) RunCombined(ctx context.Context, name string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}

// Process invokes a local inference binary once per generation call.
// The binary prints the answer between output sentinels; some builds also
// log to stderr, so both streams are merged before extraction.
type Process struct {
	bin     string
	model   string
	timeout time.Duration
	exec    executor
}

// NewProcess validates that the inference binary and model file exist and
// returns a process-backed generator.
func NewProcess(cfg types.EngineConfig) (*Process, error) {
	if cfg.BinPath == "" {
		return nil, fmt.Errorf("engine bin_path not configured")
	}
	if _, err := os.Stat(cfg.BinPath); err != nil {
		return nil, fmt.Errorf("inference binary %s: %w", cfg.BinPath, err)
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("engine model_path not configured")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file %s: %w", cfg.ModelPath, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Process{
		bin:     cfg.BinPath,
		model:   cfg.ModelPath,
		timeout: timeout,
		exec:    osExecutor{},
	}, nil
}

// Generate spawns the binary with the prompt and extracts the sentinel-
// delimited output. The call is bounded by the configured timeout; an
// expired deadline surfaces as an error so the caller can fall back.
func (p *Process) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{"-m", p.model, "-p", prompt}
	stdout, stderr, err := p.exec.RunCombined(ctx, p.bin, args)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("engine call timed out after %v: %w", p.timeout, ctxErr)
	}
	if err != nil {
		return "", fmt.Errorf("running %s: %w", p.bin, err)
	}

	raw := stdout
	if stderr != "" {
		raw += "\n" + stderr
	}
	out := ExtractOutput(raw)
	if out == "" {
		return "", fmt.Errorf("engine produced no output")
	}
	return out, nil
}
