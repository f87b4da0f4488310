package rules

import (
	"sort"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/models"
)

// Engine derives transfer and interchange facts from the network and
// prices edges under a criterion. The station→line-set index is computed
// once at construction; the engine holds no other state.
type Engine struct {
	net            *graph.Network
	linesByStation map[string]map[string]bool
}

// NewEngine builds the rule engine over an already-constructed network.
func NewEngine(net *graph.Network) *Engine {
	lines := make(map[string]map[string]bool)
	for _, name := range net.Stations() {
		neighbors, err := net.Neighbors(name)
		if err != nil {
			continue
		}
		for _, nb := range neighbors {
			if lines[name] == nil {
				lines[name] = make(map[string]bool)
			}
			lines[name][nb.Line] = true
		}
	}
	return &Engine{net: net, linesByStation: lines}
}

// IsTransfer reports whether taking a link on nextLine after having
// arrived on prevLine counts as a transfer. The start state has no
// previous line (empty string), so the first edge is never a transfer.
func (e *Engine) IsTransfer(prevLine, nextLine string) bool {
	return prevLine != "" && prevLine != nextLine
}

// EdgeCost prices a single edge under the given criterion.
func (e *Engine) EdgeCost(criterion models.Criterion, baseTime int, transfer bool) (int, error) {
	switch criterion {
	case models.CriterionTime:
		if transfer {
			return baseTime + e.net.TransferPenalty(), nil
		}
		return baseTime, nil
	case models.CriterionHops:
		if transfer {
			return 2, nil
		}
		return 1, nil
	case models.CriterionTransfers:
		if transfer {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, &models.UnsupportedCriterionError{Criterion: string(criterion)}
	}
}

// IsInterchange reports whether links of more than one distinct line
// touch the station.
func (e *Engine) IsInterchange(station string) bool {
	return len(e.linesByStation[station]) > 1
}

// Lines returns the distinct lines touching a station, sorted.
func (e *Engine) Lines(station string) []string {
	set := e.linesByStation[station]
	lines := make([]string, 0, len(set))
	for line := range set {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// TransferPenalty exposes the network's per-transfer penalty in minutes.
func (e *Engine) TransferPenalty() int {
	return e.net.TransferPenalty()
}
