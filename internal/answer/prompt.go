// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer runs the query pipeline: retrieval, fusion, gating,
// constrained generation, citation validation, and the deterministic
// excerpt fallback.
package answer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/answer-engine/internal/rank"
)

// InsufficientEvidence is the only answer produced for rejected queries,
// and the answer the engine is instructed to emit when the evidence does
// not support the question.
const InsufficientEvidence = "insufficient evidence"

// citePattern matches the citation tokens the contract requires.
var citePattern = regexp.MustCompile(`\[chunk:\d+\]`)

// HasCitation reports whether the engine output satisfies the citation
// contract: at least one [chunk:<integer>] token.
func HasCitation(answer string) bool {
	return citePattern.MatchString(answer)
}

// promptTmpl is the constrained prompt sent to the generation engine. It
// embeds the verbatim query and a citation-tagged evidence block per
// admitted candidate.
var promptTmpl = template.Must(template.New("answer").Parse(`You are a retrieval-augmented answering assistant. You may ONLY answer from the evidence below.
Hard rules:
1) The answer MUST contain at least one citation, formatted like [chunk:226].
2) If the evidence is insufficient, output exactly: insufficient evidence (no elaboration).
3) Do not assert anything unsupported by the evidence.

[Question]
{{.Query}}

[Evidence]
{{.Context}}

[Answer]
`))

// BuildPrompt renders the constrained prompt for the admitted candidates,
// in their gated order.
func BuildPrompt(query string, cands []rank.Candidate) (string, error) {
	var ctx strings.Builder
	for i, c := range cands {
		if i > 0 {
			ctx.WriteString("\n")
		}
		fmt.Fprintf(&ctx, "[chunk:%d] %s\n%s\n", c.ChunkID, c.Title, c.Text)
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Query   string
		Context string
	}{Query: query, Context: ctx.String()})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
