// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate decides whether generation may proceed for a query, based
// on hard-term presence in the retrieved evidence and per-candidate score
// thresholds.
package gate

import (
	"strings"

	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// State is the gate's position in its two-stage check.
type State string

const (
	StateCheckHardTerms State = "check_hard_terms"
	StateCheckThreshold State = "check_threshold"
	StateAdmitted       State = "admitted"
	StateRejected       State = "rejected"
)

// Decision is the gate outcome for one query.
type Decision struct {
	// State is the terminal state: StateAdmitted or StateRejected.
	State State

	// RejectedAt records the stage that rejected: StateCheckHardTerms or
	// StateCheckThreshold. Empty when admitted.
	RejectedAt State

	// HardTerms lists the vocabulary terms found in the query, in
	// vocabulary order.
	HardTerms []string

	// Admitted holds the surviving candidates in fused order. Empty when
	// rejected.
	Admitted []rank.Candidate
}

// Passed reports whether generation may proceed.
func (d Decision) Passed() bool {
	return d.State == StateAdmitted
}

// QueryHardTerms returns the vocabulary terms present in the query as
// case-insensitive substrings, in vocabulary order.
func QueryHardTerms(query string, vocabulary []string) []string {
	ql := strings.ToLower(query)
	var found []string
	for _, term := range vocabulary {
		if strings.Contains(ql, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

// EvidenceHasTerms reports whether every term appears somewhere in the
// concatenated title+text of the whole candidate set. The check is
// all-or-nothing per term across the set, not per candidate: one missing
// term rejects the query even if individual candidates look good. An
// empty term list is vacuously satisfied.
func EvidenceHasTerms(cands []rank.Candidate, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	var blob strings.Builder
	for _, c := range cands {
		blob.WriteString(strings.ToLower(c.Title))
		blob.WriteString("\n")
		blob.WriteString(strings.ToLower(c.Text))
		blob.WriteString("\n")
	}
	joined := blob.String()
	for _, term := range terms {
		if !strings.Contains(joined, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Evaluate runs the two-stage admissibility check over the fused candidate
// set. Stage one rejects when a hard term from the query is missing from
// the evidence, regardless of scores. Stage two keeps candidates clearing
// any of the three bars: raw score, coverage, or a title hit. An empty
// surviving set rejects.
func Evaluate(query string, cands []rank.Candidate, cfg types.GateConfig) Decision {
	d := Decision{State: StateCheckHardTerms}

	d.HardTerms = QueryHardTerms(query, cfg.HardTerms)
	if len(d.HardTerms) > 0 && !EvidenceHasTerms(cands, d.HardTerms) {
		d.State = StateRejected
		d.RejectedAt = StateCheckHardTerms
		return d
	}

	d.State = StateCheckThreshold
	for _, c := range cands {
		if c.RawScore >= cfg.MinScore || c.Coverage >= cfg.MinCoverage || c.TitleHit {
			d.Admitted = append(d.Admitted, c)
		}
	}

	if len(d.Admitted) == 0 {
		d.State = StateRejected
		d.RejectedAt = StateCheckThreshold
		return d
	}

	d.State = StateAdmitted
	return d
}
