package telemetry

import (
	"context"

	"github.com/quietfold/mcpchat/internal/metrics"
)

// EmitQueryFeatures records basic local text features of a user query so
// session logs can be analysed without persisting the query text itself.
func EmitQueryFeatures(ctx context.Context, query string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(query)
	Emit("query_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"query": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}
