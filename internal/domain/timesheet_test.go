package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"submit draft", StatusNew, StatusSubmitted, true},
		{"approve submitted", StatusSubmitted, StatusApproved, true},
		{"reject submitted", StatusSubmitted, StatusNeedsApproval, true},
		{"re-approve needs approval", StatusNeedsApproval, StatusApproved, true},
		{"unapprove approved", StatusApproved, StatusSubmitted, true},
		{"approve draft", StatusNew, StatusApproved, false},
		{"reject needs approval", StatusNeedsApproval, StatusNeedsApproval, false},
		{"needs approval back to submitted", StatusNeedsApproval, StatusSubmitted, false},
		{"double approve", StatusApproved, StatusApproved, false},
		{"reject approved", StatusApproved, StatusNeedsApproval, false},
		{"submit submitted", StatusSubmitted, StatusSubmitted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("NEEDS_APPROVAL")
	assert.True(t, ok)
	assert.Equal(t, StatusNeedsApproval, status)

	_, ok = ParseStatus("REJECTED")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("SUPPORT")
	assert.True(t, ok)
	assert.Equal(t, RoleSupport, role)
	assert.True(t, role.CanApprove())

	role, ok = ParseRole("STAFF")
	assert.True(t, ok)
	assert.False(t, role.CanApprove())

	_, ok = ParseRole("supervisor")
	assert.False(t, ok)
}

func TestValidPayPeriodSpan(t *testing.T) {
	sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)

	assert.True(t, ValidPayPeriodSpan(sunday, sunday.AddDate(0, 0, 13)))
	assert.False(t, ValidPayPeriodSpan(sunday, sunday.AddDate(0, 0, 6)))
	assert.False(t, ValidPayPeriodSpan(sunday, sunday.AddDate(0, 0, 14)))
	assert.False(t, ValidPayPeriodSpan(sunday.AddDate(0, 0, 1), sunday.AddDate(0, 0, 14)))
}
