package drc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeIdempotent(t *testing.T) {
	vs := []Violation{
		{RuleID: "a", Message: "m1", Location: Location{Point: pt(1, 1)}},
		{RuleID: "a", Message: "m1", Location: Location{Point: pt(1, 1)}},
		{RuleID: "b", Message: "m2", Location: Location{Point: pt(2, 2)}},
	}
	once := Dedupe(vs)
	require.Len(t, once, 2)

	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupeKeepsDistinctLocations(t *testing.T) {
	vs := []Violation{
		{RuleID: "a", Message: "m", Location: Location{Point: pt(1, 1)}},
		{RuleID: "a", Message: "m", Location: Location{Point: pt(1, 2)}},
	}
	assert.Len(t, Dedupe(vs), 2)
}

func TestSortViolationsOrder(t *testing.T) {
	vs := []Violation{
		{RuleID: "b", Location: Location{Point: pt(0, 0)}},
		{RuleID: "a", Location: Location{Point: pt(5, 0)}},
		{RuleID: "a", Location: Location{Point: pt(1, 3)}},
		{RuleID: "a", Location: Location{Point: pt(1, 2)}},
	}
	sortViolations(vs)

	assert.Equal(t, "a", vs[0].RuleID)
	assert.Equal(t, pt(1, 2), vs[0].Location.Point)
	assert.Equal(t, pt(1, 3), vs[1].Location.Point)
	assert.Equal(t, pt(5, 0), vs[2].Location.Point)
	assert.Equal(t, "b", vs[3].RuleID)
}

func TestBuildResultSplitsBySeverity(t *testing.T) {
	res := buildResult([]Violation{
		{RuleID: "a", RuleType: "clearance", Severity: SeverityError},
		{RuleID: "b", RuleType: "silk_to_silk", Severity: SeverityWarning},
	})

	assert.Equal(t, 1, res.Summary.Errors)
	assert.Equal(t, 1, res.Summary.Warnings)
	assert.Equal(t, 2, res.Summary.Total)
	assert.False(t, res.Summary.Passed)
	assert.Equal(t, 1, res.ByType["clearance"])
	assert.Equal(t, 1, res.ByType["silk_to_silk"])
}

func TestBuildResultEmptyPasses(t *testing.T) {
	res := buildResult(nil)
	assert.True(t, res.Summary.Passed)
	assert.NotNil(t, res.Violations)
	assert.NotNil(t, res.Warnings)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())

	data, err := SeverityError.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"error"`, string(data))
}
