package routing

import (
	"container/heap"
	"fmt"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/heuristic"
	"github.com/rumbo-transit/rumbo_core/internal/models"
	"github.com/rumbo-transit/rumbo_core/internal/rules"
)

// maxExpandedStates caps frontier expansion. The state space is bounded
// by stations × lines, so hitting this means the configuration slipped
// past construction-time validation.
const maxExpandedStates = 500_000

// Planner runs criterion-optimal searches over a fixed network. Each call
// to FindPath owns its frontier, cost map, and predecessor map, so a
// single Planner is safe for concurrent use.
type Planner struct {
	net       *graph.Network
	rules     *rules.Engine
	estimator heuristic.Estimator
}

// NewPlanner wires the search to its graph, rule engine, and estimator.
func NewPlanner(net *graph.Network, eng *rules.Engine, est heuristic.Estimator) *Planner {
	return &Planner{net: net, rules: eng, estimator: est}
}

// FindPath runs A* from source to dest under the given criterion and
// returns the state path together with its accumulated cost.
//
// The frontier is ordered by f = g + h; entries with equal f are popped
// in insertion order (FIFO), which makes results reproducible. Improved
// costs push duplicate entries instead of re-keying the heap; stale
// entries are skipped when popped. The goal test happens on pop, not on
// insertion, which preserves optimality under a consistent heuristic.
func (p *Planner) FindPath(source, dest string, criterion models.Criterion) ([]models.SearchState, int, error) {
	if err := criterion.Validate(); err != nil {
		return nil, 0, err
	}
	if !p.net.HasStation(source) {
		return nil, 0, &models.UnknownStationError{Station: source, Known: p.net.Stations()}
	}
	if !p.net.HasStation(dest) {
		return nil, 0, &models.UnknownStationError{Station: dest, Known: p.net.Stations()}
	}

	start := models.SearchState{Station: source}
	if source == dest {
		return []models.SearchState{start}, 0, nil
	}

	gScore := map[models.SearchState]int{start: 0}
	parents := make(map[models.SearchState]models.SearchState)
	closed := make(map[models.SearchState]bool)

	frontier := &stateQueue{}
	heap.Init(frontier)
	seq := 0
	heap.Push(frontier, &stateItem{state: start, f: 0, seq: seq})

	expanded := 0

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(*stateItem)
		current := item.state

		if closed[current] {
			continue
		}
		closed[current] = true

		if current.Station == dest {
			return reconstructPath(parents, start, current), gScore[current], nil
		}

		expanded++
		if expanded > maxExpandedStates {
			return nil, 0, fmt.Errorf("expanded %d states without reaching %q: %w", expanded, dest, models.ErrNoRouteFound)
		}

		neighbors, err := p.net.Neighbors(current.Station)
		if err != nil {
			return nil, 0, err
		}

		for _, nb := range neighbors {
			transfer := p.rules.IsTransfer(current.Line, nb.Line)
			step, err := p.rules.EdgeCost(criterion, nb.Time, transfer)
			if err != nil {
				return nil, 0, err
			}

			next := models.SearchState{Station: nb.Station, Line: nb.Line}
			tentative := gScore[current] + step

			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}

			h, err := p.estimator.Estimate(criterion, nb.Station, dest)
			if err != nil {
				return nil, 0, err
			}

			gScore[next] = tentative
			parents[next] = current
			seq++
			heap.Push(frontier, &stateItem{state: next, f: float64(tentative) + h, seq: seq})
		}
	}

	return nil, 0, fmt.Errorf("%q is not reachable from %q: %w", dest, source, models.ErrNoRouteFound)
}

// reconstructPath follows predecessor links from the goal state back to
// the start state and reverses the result.
func reconstructPath(parents map[models.SearchState]models.SearchState, start, goal models.SearchState) []models.SearchState {
	path := []models.SearchState{goal}
	for cur := goal; cur != start; {
		cur = parents[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// stateItem is one frontier entry. seq records insertion order and breaks
// ties between equal f values.
type stateItem struct {
	state models.SearchState
	f     float64
	seq   int
	index int // for heap
}

// stateQueue implements heap.Interface for the A* frontier.
type stateQueue []*stateItem

func (q stateQueue) Len() int { return len(q) }

func (q stateQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q stateQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *stateQueue) Push(x interface{}) {
	n := len(*q)
	item := x.(*stateItem)
	item.index = n
	*q = append(*q, item)
}

func (q *stateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[0 : n-1]
	return item
}
