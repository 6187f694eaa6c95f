package budget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

func TestCondenseWithinBudgetIsUnchanged(t *testing.T) {
	req := types.CondenseRequest{
		ModelID:      "claude-3-5-sonnet",
		SystemPrompt: "Rules.",
		UserPrompt:   "Q?",
	}
	result := Condense(req)

	assert.False(t, result.Condensed)
	assert.Equal(t, "none", result.Strategy)
	assert.Equal(t, result.OriginalTokens, result.FinalTokens)
}

// Scenario E: an oversized KB context must be reduced, the final token count
// must never exceed the original, and "kb" must be part of the strategy.
func TestCondenseOversizedKBContext(t *testing.T) {
	repeated := strings.Repeat("result block ", 6000)
	req := types.CondenseRequest{
		ModelID:      "gpt-4",
		SystemPrompt: "Rules." + repeated,
		UserPrompt:   "Q?",
		KBContent:    repeated,
	}
	result := Condense(req)

	require.True(t, result.Condensed)
	assert.Contains(t, result.Strategy, "kb")
	assert.LessOrEqual(t, result.FinalTokens, result.OriginalTokens)
}

// Scenario F: a huge diff must be truncated, the marker must appear in the
// returned user prompt, and "diff" must be part of the strategy.
func TestCondenseHugeDiff(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("diff --git a/file")
		sb.WriteString(strings.Repeat("x", 20))
		sb.WriteString(" b/file\n+change\n")
	}
	diff := sb.String()

	req := types.CondenseRequest{
		ModelID:      "gpt-4",
		SystemPrompt: "Rules.",
		UserPrompt:   "Review this:\n" + diff,
		GitDiff:      diff,
	}
	result := Condense(req)

	require.True(t, result.Condensed)
	assert.Contains(t, result.Strategy, "diff")
	assert.Contains(t, result.UserPrompt, truncationNotice)
}

// Property 7: if finalTokens > available, a "still exceeds" warning appears.
func TestCondenseStillExceedsWarns(t *testing.T) {
	req := types.CondenseRequest{
		ModelID:      "gpt-4",
		SystemPrompt: strings.Repeat("x", 100000),
		UserPrompt:   "Q?",
	}
	result := Condense(req)

	limits := GetModelLimits(req.ModelID)
	if result.FinalTokens > limits.Available {
		found := false
		for _, w := range result.Warnings {
			if strings.Contains(w, "still exceeds") {
				found = true
			}
		}
		assert.True(t, found, "expected a still-exceeds warning, got %v", result.Warnings)
	}
}
