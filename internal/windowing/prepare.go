// Package windowing prepares a pair-safe, token-budgeted send window over a
// conversation. Exchanges (invocation request + result) are never split, so
// every window sent upstream preserves the call/result adjacency the model
// depends on.
package windowing

import "github.com/quietfold/mcpchat/internal/llm"

// Stats summarizes the result of window preparation.
type Stats struct {
	Total            int // estimated cost of included groups only
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool // newest single group alone exceeds Budget
}

// PrepareSendWindow returns a subslice of turns (oldest to newest) that fits
// within budget using the TokenCounter, without splitting groups.
//
// Rules:
//   - Include whole groups scanning newest to oldest while total stays
//     within budget.
//   - If the newest group alone exceeds budget, return an empty window and
//     set OverBudgetNewest.
//   - If budget <= 0, return an empty window (OverBudgetNewest set when any
//     groups exist).
func PrepareSendWindow(turns []llm.Turn, budget int, c TokenCounter) ([]llm.Turn, Stats) {
	if len(turns) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupTurns(turns)

	if budget <= 0 {
		stats := Stats{Budget: budget, SkippedGroups: len(groups)}
		if len(groups) > 0 {
			stats.OverBudgetNewest = true
		}
		return nil, stats
	}

	total := 0
	included := 0
	startIdx := len(groups)

	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := c.CountGroup(groups[gi], turns)
		if included == 0 && cost > budget {
			return nil, Stats{
				Budget:           budget,
				SkippedGroups:    len(groups),
				OverBudgetNewest: true,
			}
		}
		if total+cost <= budget {
			total += cost
			included++
			startIdx = gi
			continue
		}
		// Adding this group would exceed budget; stop scanning older groups.
		break
	}

	if included == 0 {
		return nil, Stats{Budget: budget, SkippedGroups: len(groups)}
	}

	window := turns[groups[startIdx].Start:]
	return window, Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: included,
		SkippedGroups:  len(groups) - included,
	}
}
