package windowing

import (
	"encoding/json"
	"fmt"

	"github.com/quietfold/mcpchat/internal/llm"
	"github.com/quietfold/mcpchat/internal/metrics"
)

// TokenCounter estimates input-token cost for turns or groups.
type TokenCounter interface {
	CountTurn(t llm.Turn) int
	CountGroup(g Group, all []llm.Turn) int
}

// HeuristicCounter is the default deterministic estimator: rune counts of
// the turn's rendered content plus a small fixed per-turn overhead to account
// for minimal formatting.
type HeuristicCounter struct{}

// Fixed per-turn overhead for deterministic counts; changing this requires updating the guard test.
const turnOverhead = 4

func (HeuristicCounter) CountTurn(t llm.Turn) int {
	return countContent(t) + turnOverhead
}

func (h HeuristicCounter) CountGroup(g Group, all []llm.Turn) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}

func countContent(t llm.Turn) int {
	switch {
	case t.Call != nil:
		return metrics.CountFeatures(t.Call.Name + renderJSON(t.Call.Args)).Runes
	case t.Result != nil:
		return metrics.CountFeatures(renderJSON(t.Result)).Runes
	default:
		return metrics.CountFeatures(t.Text).Runes
	}
}

func renderJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
