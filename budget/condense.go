package budget

import (
	"fmt"
	"strings"

	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

const blockSeparator = "\n\n---\n\n"
const diffFileMarker = "diff --git"
const truncationNotice = "\n\n[content truncated to fit model context limit]"

// Condense implements spec.md §4.7's condense_context: if the prompt pair
// already fits the model's available budget, return it unchanged with
// strategy "none". Otherwise apply KB-reduce then diff-truncate, in that
// order, each dropping trailing swappable content until the prompt fits or
// the source is exhausted; a residual over-budget prompt is still returned,
// with a warning rather than an error, since condense_context never fails.
func Condense(req types.CondenseRequest) types.CondenseResult {
	limits := GetModelLimits(req.ModelID)

	systemPrompt := req.SystemPrompt
	userPrompt := req.UserPrompt
	originalTokens := CountTokens(systemPrompt) + CountTokens(userPrompt)

	if originalTokens <= limits.Available {
		return types.CondenseResult{
			Condensed:      false,
			Strategy:       "none",
			OriginalTokens: originalTokens,
			FinalTokens:    originalTokens,
			SystemPrompt:   systemPrompt,
			UserPrompt:     userPrompt,
		}
	}

	appliedKB := false
	appliedDiff := false

	kbContent := req.KBContent
	blocks := splitNonEmpty(kbContent, blockSeparator)
	for len(blocks) > 0 && currentTokens(systemPrompt, userPrompt) > limits.Available {
		blocks = blocks[:len(blocks)-1]
		reduced := strings.Join(blocks, blockSeparator)
		if kbContent != "" {
			systemPrompt = strings.Replace(systemPrompt, kbContent, reduced, 1)
		}
		kbContent = reduced
		appliedKB = true
	}

	gitDiff := req.GitDiff
	sections := splitDiffSections(gitDiff)
	for len(sections) > 0 && currentTokens(systemPrompt, userPrompt) > limits.Available {
		sections = sections[:len(sections)-1]
		reduced := strings.Join(sections, "")
		if !strings.Contains(reduced, truncationNotice) {
			reduced += truncationNotice
		}
		if gitDiff != "" {
			userPrompt = strings.Replace(userPrompt, gitDiff, reduced, 1)
		}
		gitDiff = reduced
		appliedDiff = true
	}

	finalTokens := currentTokens(systemPrompt, userPrompt)

	var warnings []string
	if finalTokens > limits.Available {
		warnings = append(warnings, fmt.Sprintf("context still exceeds available budget by %d tokens", finalTokens-limits.Available))
	}

	strategy := "none"
	switch {
	case appliedKB && appliedDiff:
		strategy = "kb+diff"
	case appliedKB:
		strategy = "kb"
	case appliedDiff:
		strategy = "diff"
	}

	return types.CondenseResult{
		Condensed:      appliedKB || appliedDiff,
		Strategy:       strategy,
		OriginalTokens: originalTokens,
		FinalTokens:    finalTokens,
		Warnings:       warnings,
		SystemPrompt:   systemPrompt,
		UserPrompt:     userPrompt,
	}
}

func currentTokens(systemPrompt, userPrompt string) int {
	return CountTokens(systemPrompt) + CountTokens(userPrompt)
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

// splitDiffSections splits a unified diff into per-file sections, each
// starting at a "diff --git" marker and retaining the marker itself, so
// joining a prefix of the slice reproduces a valid leading portion of the
// diff.
func splitDiffSections(diff string) []string {
	if diff == "" {
		return nil
	}
	parts := strings.Split(diff, diffFileMarker)
	sections := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 {
			if strings.TrimSpace(p) != "" {
				sections = append(sections, p)
			}
			continue
		}
		sections = append(sections, diffFileMarker+p)
	}
	return sections
}
