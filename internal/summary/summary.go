package summary

import (
	"fmt"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/models"
	"github.com/rumbo-transit/rumbo_core/internal/rules"
)

// Summarize turns a state path into a presentable route record. Legs,
// penalties, and the three aggregates are recomputed from the network and
// rule engine rather than read from the search's cost map, so the two
// accountings check each other. The transfer rule is the same one the
// search prices with: a leg is a transfer iff its line differs from the
// line used to arrive at its origin, and the first leg never is.
func Summarize(net *graph.Network, eng *rules.Engine, states []models.SearchState, criterion models.Criterion, cost int) (*models.Route, error) {
	route := &models.Route{
		Criterion: criterion,
		Cost:      cost,
		States:    states,
		Legs:      []models.Leg{},
	}

	for i := 0; i+1 < len(states); i++ {
		from, to := states[i], states[i+1]

		baseTime, err := linkTime(net, from.Station, to.Station, to.Line)
		if err != nil {
			return nil, err
		}

		transfer := eng.IsTransfer(from.Line, to.Line)
		penalty := 0
		if transfer {
			penalty = eng.TransferPenalty()
		}

		route.Legs = append(route.Legs, models.Leg{
			From:     from.Station,
			To:       to.Station,
			Line:     to.Line,
			Transfer: transfer,
			Time:     baseTime,
			Penalty:  penalty,
		})

		route.TotalTime += baseTime + penalty
		route.Hops++
		if transfer {
			route.Transfers++
		}
	}

	return route, nil
}

// linkTime resolves the base time of the link from→to on the given line.
// The line is part of the lookup because two stations may be joined by
// parallel links on different lines.
func linkTime(net *graph.Network, from, to, line string) (int, error) {
	neighbors, err := net.Neighbors(from)
	if err != nil {
		return 0, err
	}
	for _, nb := range neighbors {
		if nb.Station == to && nb.Line == line {
			return nb.Time, nil
		}
	}
	return 0, fmt.Errorf("no link %s-%s on line %s", from, to, line)
}
