package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func aggWith(results map[string]*ValidatorResult) *AggregateResult {
	return &AggregateResult{Validators: results}
}

func TestMerge_AllValid(t *testing.T) {
	a := aggWith(map[string]*ValidatorResult{
		ValidatorStructural: {Valid: true, Score: 100},
		ValidatorSemantic:   {Valid: true, Score: 90},
	})
	a.Merge()
	assert.True(t, a.Overall.Valid)
	assert.Equal(t, 0, a.Overall.ErrorCount)
	assert.Equal(t, 95, a.Overall.Score)
}

func TestMerge_OneInvalid(t *testing.T) {
	bad := NewValidatorResult()
	bad.AddError("SEM001", "x")
	bad.Finalize()
	a := aggWith(map[string]*ValidatorResult{
		ValidatorStructural: {Valid: true, Score: 100},
		ValidatorSemantic:   bad,
	})
	a.Merge()
	assert.False(t, a.Overall.Valid)
	assert.Equal(t, 1, a.Overall.ErrorCount)
}

func TestMerge_StrictInvalidWithoutErrors(t *testing.T) {
	// Strict mode flips Valid without recording error findings.
	strict := NewValidatorResult()
	strict.AddWarning("SEMW01", "x")
	strict.Valid = false
	strict.Finalize()
	a := aggWith(map[string]*ValidatorResult{ValidatorSemantic: strict})
	a.Merge()
	assert.False(t, a.Overall.Valid)
	assert.Equal(t, 0, a.Overall.ErrorCount)
}

func TestErrorCodes_PreservesValidatorOrderAndDuplicates(t *testing.T) {
	structural := NewValidatorResult()
	structural.AddError("STR001", "a")
	semantic := NewValidatorResult()
	semantic.AddError("SEM001", "b")
	semantic.AddError("SEM001", "c")
	a := aggWith(map[string]*ValidatorResult{
		ValidatorSemantic:   semantic,
		ValidatorStructural: structural,
	})
	assert.Equal(t, []string{"STR001", "SEM001", "SEM001"}, a.ErrorCodes())
}

func TestTally_CountsPassFail(t *testing.T) {
	b := &BatchResult{Components: []AggregateResult{
		{Overall: Overall{Valid: true}},
		{Overall: Overall{Valid: false}},
		{Overall: Overall{Valid: true}},
	}}
	b.Tally()
	assert.Equal(t, BatchSummary{Total: 3, Passed: 2, Failed: 1}, b.Summary)
}

func TestNormalizeRegistryPath_AbsoluteUnderRoot(t *testing.T) {
	assert.Equal(t, "agents/dev.md", NormalizeRegistryPath("/work/catalog", "/work/catalog/agents/dev.md"))
}

func TestNormalizeRegistryPath_RelativeUnchanged(t *testing.T) {
	assert.Equal(t, "agents/dev.md", NormalizeRegistryPath("/work/catalog", "./agents/dev.md"))
}

func TestNormalizeRegistryPath_OutsideRootKept(t *testing.T) {
	assert.Equal(t, "/elsewhere/dev.md", NormalizeRegistryPath("/work/catalog", "/elsewhere/dev.md"))
}
