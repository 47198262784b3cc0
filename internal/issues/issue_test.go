package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityCritical, "critical"},
		{Severity(-1), "unknown"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "plain warning",
			issue: Issue{Path: "paths./pets.get", Message: "no JSON body", Severity: SeverityWarning},
			want:  "⚠ paths./pets.get: no JSON body",
		},
		{
			name: "coded with operation id",
			issue: Issue{
				Path:      "paths./pets.get.responses",
				Message:   "treated as unit",
				Severity:  SeverityWarning,
				Code:      CodeResponseShapeUnrecognized,
				Operation: &Operation{Method: "GET", Path: "/pets", OperationID: "list_pets"},
			},
			want: "⚠ paths./pets.get.responses (operationId: list_pets): [ResponseShapeUnrecognized] treated as unit",
		},
		{
			name: "operation without id",
			issue: Issue{
				Path:      "paths./pets.post",
				Message:   "renamed",
				Severity:  SeverityInfo,
				Operation: &Operation{Method: "POST", Path: "/pets"},
			},
			want: "ℹ paths./pets.post (POST /pets): renamed",
		},
		{
			name:  "critical",
			issue: Issue{Path: "types.go", Message: "cannot format", Severity: SeverityCritical},
			want:  "✗ types.go: cannot format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestCounts(t *testing.T) {
	info, warning, critical := Counts([]Issue{
		{Severity: SeverityInfo},
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
		{Severity: SeverityCritical},
	})
	assert.Equal(t, 1, info)
	assert.Equal(t, 2, warning)
	assert.Equal(t, 1, critical)
}
