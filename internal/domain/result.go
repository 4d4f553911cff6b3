package domain

import (
	"math"
	"time"
)

// Validator names as they appear in options and in AggregateResult keys.
const (
	ValidatorStructural = "structural"
	ValidatorIntegrity  = "integrity"
	ValidatorSemantic   = "semantic"
	ValidatorReference  = "reference"
)

// ValidatorOrder is the stable iteration order used for aggregation and
// reporting. Map iteration order is random; every consumer that needs
// determinism walks this slice instead.
func ValidatorOrder() []string {
	return []string{ValidatorStructural, ValidatorIntegrity, ValidatorSemantic, ValidatorReference}
}

// KnownValidator reports whether name is one of the four validators.
func KnownValidator(name string) bool {
	for _, v := range ValidatorOrder() {
		if v == name {
			return true
		}
	}
	return false
}

// Overall is the merged verdict across every executed validator.
type Overall struct {
	Valid      bool `json:"valid"`
	ErrorCount int  `json:"error_count"`
	Score      int  `json:"score"`
}

// AggregateResult is the outcome of validating one component. Validators
// holds an entry only for validators that were selected to run.
type AggregateResult struct {
	Path       string                      `json:"path"`
	Type       ComponentType               `json:"type"`
	Overall    Overall                     `json:"overall"`
	Validators map[string]*ValidatorResult `json:"validators"`
	Hash       string                      `json:"hash,omitempty"`
	RunID      string                      `json:"run_id,omitempty"`
	Timestamp  time.Time                   `json:"timestamp"`
}

// Merge recomputes Overall from the executed validators: valid iff all are
// error-free, error count summed, score the mean of the individual scores.
func (a *AggregateResult) Merge() {
	a.Overall = Overall{Valid: true}
	var total, n int
	for _, name := range ValidatorOrder() {
		vr, ok := a.Validators[name]
		if !ok {
			continue
		}
		// Strict mode can flip Valid without adding error findings, so the
		// per-validator flag is authoritative, not the error count.
		if !vr.Valid {
			a.Overall.Valid = false
		}
		a.Overall.ErrorCount += vr.ErrorCount()
		total += vr.Score
		n++
	}
	if n > 0 {
		a.Overall.Score = int(math.Round(float64(total) / float64(n)))
	}
}

// ErrorCodes flattens every error finding's code across executed validators,
// preserving duplicates and validator order.
func (a *AggregateResult) ErrorCodes() []string {
	var codes []string
	for _, name := range ValidatorOrder() {
		vr, ok := a.Validators[name]
		if !ok {
			continue
		}
		for _, f := range vr.Errors {
			codes = append(codes, f.Code)
		}
	}
	return codes
}

// BatchSummary tallies pass/fail across a batch run.
type BatchSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// BatchResult is the outcome of validating a collection of components.
// Components preserves input order regardless of execution order.
type BatchResult struct {
	Summary    BatchSummary      `json:"summary"`
	Components []AggregateResult `json:"components"`
	RunID      string            `json:"run_id,omitempty"`
	CommitHash string            `json:"commit_hash,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Tally recomputes Summary from per-component verdicts.
func (b *BatchResult) Tally() {
	b.Summary = BatchSummary{Total: len(b.Components)}
	for _, c := range b.Components {
		if c.Overall.Valid {
			b.Summary.Passed++
		} else {
			b.Summary.Failed++
		}
	}
}
