// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm invokes the external text-generation engine behind a narrow
// interface so the invocation mechanism (process spawn, HTTP call) is
// swappable without touching gating logic.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Generator produces free text for a prompt. Implementations must honor
// ctx cancellation; callers treat any error, including timeouts, as a
// citation-contract violation rather than a hard failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Output sentinel markers emitted by the local inference binary.
const (
	outputStart = "--- model output ---"
	outputEnd   = "--- end ---"
)

// ExtractOutput returns the text strictly between the first pair of
// output sentinels, trimmed. Without both markers in order, the whole
// input is returned trimmed.
func ExtractOutput(raw string) string {
	a := strings.Index(raw, outputStart)
	b := strings.Index(raw, outputEnd)
	if a != -1 && b != -1 && b > a {
		return strings.TrimSpace(raw[a+len(outputStart) : b])
	}
	return strings.TrimSpace(raw)
}

// NewGenerator builds the configured engine. It validates required
// artifacts up front so missing binaries or models fail at startup, not
// mid-query.
func NewGenerator(cfg types.EngineConfig) (Generator, error) {
	switch cfg.Backend {
	case types.BackendProcess, "":
		return NewProcess(cfg)
	case types.BackendHTTP:
		return NewHTTP(cfg)
	default:
		return nil, fmt.Errorf("unknown engine backend %q: use process or http", cfg.Backend)
	}
}
