package kbse

import (
	"strings"
	"unicode/utf8"

	"github.com/piyushimraw/meeseeks-cli/kbse/budget"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

// CountTokens implements spec.md §4.7's count_tokens.
func CountTokens(s string) int { return budget.CountTokens(s) }

// CountChatTokens implements count_chat_tokens: per-message token count
// plus the fixed chat overhead, summed across messages.
func CountChatTokens(messages []string) int { return budget.CountChatTokens(messages) }

// GetModelLimits implements get_model_limits.
func GetModelLimits(modelID string) types.ModelLimits { return budget.GetModelLimits(modelID) }

// GetAvailableTokens implements get_available_tokens: the soft prompt
// budget for modelID.
func GetAvailableTokens(modelID string) int { return budget.GetModelLimits(modelID).Available }

// CondenseContext implements condense_context.
func CondenseContext(req types.CondenseRequest) types.CondenseResult { return budget.Condense(req) }

// TruncateToTokenLimit trims s to at most limit tokens, cutting on a rune
// boundary and never panicking on multi-byte input. Used by callers that
// need a single string truncated rather than a full condense pass.
func TruncateToTokenLimit(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if budget.CountTokens(s) <= limit {
		return s
	}
	// budget.CountTokens is bytes/4 ceil'd, so invert it to a byte budget,
	// then back off to the start of a rune.
	maxBytes := limit * 4
	if maxBytes >= len(s) {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TruncateDiff drops trailing "diff --git" file sections from diff until
// it fits within limit tokens, appending the truncation marker budget.Condense
// uses, so a lone diff can be bounded the same way condense_context bounds
// one embedded in a prompt.
func TruncateDiff(diff string, limit int) string {
	if budget.CountTokens(diff) <= limit {
		return diff
	}
	sections := splitDiffSections(diff)
	for len(sections) > 0 {
		sections = sections[:len(sections)-1]
		candidate := strings.Join(sections, "") + "\n\n[content truncated to fit model context limit]"
		if budget.CountTokens(candidate) <= limit {
			return candidate
		}
	}
	return "\n\n[content truncated to fit model context limit]"
}

func splitDiffSections(diff string) []string {
	const marker = "diff --git"
	if diff == "" {
		return nil
	}
	parts := strings.Split(diff, marker)
	sections := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 {
			if strings.TrimSpace(p) != "" {
				sections = append(sections, p)
			}
			continue
		}
		sections = append(sections, marker+p)
	}
	return sections
}

// ContextAnalysis is analyze_context's return shape: a snapshot of token
// usage against a model's budget, without mutating anything.
type ContextAnalysis struct {
	ModelID        string
	SystemTokens   int
	UserTokens     int
	TotalTokens    int
	Available      int
	OverBudget     bool
	OverBudgetBy   int
}

// AnalyzeContext implements analyze_context: a read-only token accounting
// pass, the inspection counterpart to condense_context's mutation.
func AnalyzeContext(modelID, systemPrompt, userPrompt string) ContextAnalysis {
	limits := budget.GetModelLimits(modelID)
	sys := budget.CountTokens(systemPrompt)
	usr := budget.CountTokens(userPrompt)
	total := sys + usr

	a := ContextAnalysis{
		ModelID:      modelID,
		SystemTokens: sys,
		UserTokens:   usr,
		TotalTokens:  total,
		Available:    limits.Available,
	}
	if total > limits.Available {
		a.OverBudget = true
		a.OverBudgetBy = total - limits.Available
	}
	return a
}
