package budget

import "github.com/piyushimraw/meeseeks-cli/kbse/types"

// safetyMargin is subtracted from context-maxOutput to leave headroom for
// framing tokens the estimator doesn't model exactly (spec.md §4.7:
// available = context - maxOutput - safety).
const safetyMargin = 192

// knownModels is the table of context/output limits per spec.md §4.7.
// Values are representative of the families each id names, not
// contractual API guarantees.
var knownModels = map[string]types.ModelLimits{
	"claude-3-5-sonnet":  {Context: 200000, MaxOutput: 8192},
	"claude-3-opus":      {Context: 200000, MaxOutput: 4096},
	"claude-3-haiku":     {Context: 200000, MaxOutput: 4096},
	"gpt-4o":             {Context: 128000, MaxOutput: 16384},
	"gpt-4o-mini":        {Context: 128000, MaxOutput: 16384},
	"gpt-4-turbo":        {Context: 128000, MaxOutput: 4096},
	"gemini-1.5-pro":     {Context: 2000000, MaxOutput: 8192},
	"gemini-1.5-flash":   {Context: 1000000, MaxOutput: 8192},
}

// defaultLimits is the fallback triple for unrecognised model ids, per
// spec.md §4.7: 8192/4096/6000.
var defaultLimits = types.ModelLimits{Context: 8192, MaxOutput: 4096, Available: 6000}

// GetModelLimits looks up the (context, maxOutput, available) triple for
// modelID, falling back to defaultLimits when the id is unknown.
func GetModelLimits(modelID string) types.ModelLimits {
	limits, ok := knownModels[modelID]
	if !ok {
		return defaultLimits
	}
	limits.Available = limits.Context - limits.MaxOutput - safetyMargin
	if limits.Available < 0 {
		limits.Available = 0
	}
	return limits
}
