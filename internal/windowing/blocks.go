package windowing

import "github.com/quietfold/mcpchat/internal/llm"

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of turns [Start, End) in the original
// history. Kind indicates whether it is a singleton or a validated
// invocation/result pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

// GroupTurns groups history into atomic units that preserve tool exchanges.
// Invariants:
//   - A pair is exactly two adjacent turns: a model turn carrying a
//     tool-invocation request followed by the tool turn answering that same
//     call ID.
//   - Error-shaped results are treated the same for grouping.
//   - A request whose result is missing or mismatched falls back to a
//     singleton, as does any plain text turn.
func GroupTurns(turns []llm.Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		t := turns[i]
		if t.Role == llm.RoleModel && t.Call != nil && i+1 < len(turns) {
			next := turns[i+1]
			if next.Role == llm.RoleTool && next.CallID == t.Call.ID {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
				i += 2
				continue
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}
