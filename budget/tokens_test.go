package budget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokensEmpty(t *testing.T) {
	assert.Zero(t, CountTokens(""))
}

func TestCountTokensMonotonic(t *testing.T) {
	prev := CountTokens("")
	s := ""
	for i := 0; i < 50; i++ {
		s += "x"
		got := CountTokens(s)
		assert.GreaterOrEqual(t, got, prev, "count_tokens must be non-decreasing as s is extended")
		prev = got
	}
}

func TestCountChatTokensIncludesOverhead(t *testing.T) {
	messages := []string{"hello", "world"}
	got := CountChatTokens(messages)
	want := CountTokens("hello") + chatOverheadPerMessage + CountTokens("world") + chatOverheadPerMessage
	assert.Equal(t, want, got)
}

func TestGetModelLimitsKnownModel(t *testing.T) {
	limits := GetModelLimits("claude-3-5-sonnet")
	assert.Equal(t, 200000, limits.Context)
	assert.Equal(t, limits.Context-limits.MaxOutput-safetyMargin, limits.Available)
}

func TestGetModelLimitsUnknownModelFallsBackToDefault(t *testing.T) {
	limits := GetModelLimits("gpt-4")
	assert.Equal(t, defaultLimits.Context, limits.Context)
	assert.Equal(t, defaultLimits.Available, limits.Available)
}

func TestSplitDiffSectionsReproducesPrefix(t *testing.T) {
	diff := "diff --git a/x b/x\n+x\ndiff --git a/y b/y\n+y\n"
	sections := splitDiffSections(diff)
	assert.Len(t, sections, 2)
	assert.Equal(t, diff, strings.Join(sections, ""))
}
