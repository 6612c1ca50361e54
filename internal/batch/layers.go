package batch

import (
	"log"

	"github.com/planckhq/planck/pkg/models"
)

// buildLayers groups calls into execution layers. A call is eligible for
// the current layer when it has no dependency or its dependency was
// resolved in a prior layer; all eligible calls are removed from the
// remaining set together before the next scan.
//
// When a scan yields nothing while calls remain (circular or missing
// dependency), the remaining calls are dumped into one final layer and
// degraded is returned true. This best-effort fallback preserves the
// one-result-per-call contract; strict handling is the executor's call.
func buildLayers(calls []models.ToolCall) (layers [][]models.ToolCall, degraded bool) {
	resolved := make(map[string]bool, len(calls))
	remaining := make([]models.ToolCall, len(calls))
	copy(remaining, calls)

	for len(remaining) > 0 {
		var layer []models.ToolCall
		var next []models.ToolCall

		for _, call := range remaining {
			if call.DependsOn == "" || resolved[call.DependsOn] {
				layer = append(layer, call)
			} else {
				next = append(next, call)
			}
		}

		if len(layer) == 0 {
			// Circular or missing dependency: run whatever is left
			// in one final layer rather than failing the batch.
			log.Printf("[batch] WARNING: circular or missing dependency among %d remaining calls, executing them in one final layer", len(next))
			layers = append(layers, next)
			return layers, true
		}

		for _, call := range layer {
			resolved[call.ID] = true
		}
		layers = append(layers, layer)
		remaining = next
	}

	return layers, false
}
