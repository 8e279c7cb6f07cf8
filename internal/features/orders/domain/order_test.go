package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeOrderNumber verifies candidate-form derivation from human input.
func TestNormalizeOrderNumber(t *testing.T) {
	tests := []struct {
		in     string
		hashed string
		bare   string
	}{
		{"1001", "#1001", "1001"},
		{"#1001", "#1001", "1001"},
		{"Order #1001", "#1001", "1001"},
		{"order number 1001", "#1001", "1001"},
		{"  #141808  ", "#141808", "141808"},
		{"", "", ""},
		{"   ", "", ""},
		{"#", "", ""},
	}

	for _, tt := range tests {
		hashed, bare := NormalizeOrderNumber(tt.in)
		assert.Equal(t, tt.hashed, hashed, "input %q", tt.in)
		assert.Equal(t, tt.bare, bare, "input %q", tt.in)
	}
}

// TestParseTime verifies tolerant timestamp parsing.
func TestParseTime(t *testing.T) {
	assert.Equal(t,
		time.Date(2025, 5, 2, 14, 48, 25, 0, time.UTC),
		ParseTime("2025-05-02T14:48:25Z"),
	)
	assert.Equal(t,
		time.Date(2025, 5, 2, 14, 48, 25, 0, time.UTC),
		ParseTime("2025-05-02T14:48:25"),
	)
	assert.True(t, ParseTime("").IsZero())
	assert.True(t, ParseTime("null").IsZero())
	assert.True(t, ParseTime("not a date").IsZero())
}
