package graph

import (
	"fmt"
	"sort"

	"github.com/rumbo-transit/rumbo_core/internal/models"
)

// Neighbor is one outgoing adjacency entry: the station reached, the line
// the connecting link belongs to, and the base traversal time in minutes.
type Neighbor struct {
	Station string
	Line    string
	Time    int
}

// Network is the immutable routing graph. It is built once from a
// NetworkConfig and never mutated afterwards, so independent searches can
// share it concurrently without locking.
type Network struct {
	stations  map[string]models.Station
	adjacency map[string][]Neighbor
	penalty   int
}

// NewNetwork validates the configuration and builds the adjacency
// structure. Links are declared once but stored in both directions.
// Malformed input (negative times, links referencing unknown stations,
// negative penalty) is rejected here so the search layer never sees it.
func NewNetwork(cfg models.NetworkConfig) (*Network, error) {
	if cfg.TransferPenalty < 0 {
		return nil, fmt.Errorf("transfer penalty must be non-negative, got %d", cfg.TransferPenalty)
	}

	stations := make(map[string]models.Station, len(cfg.Stations))
	for _, s := range cfg.Stations {
		if s.Name == "" {
			return nil, fmt.Errorf("station with empty name")
		}
		if _, dup := stations[s.Name]; dup {
			return nil, fmt.Errorf("duplicate station %q", s.Name)
		}
		stations[s.Name] = s
	}

	adjacency := make(map[string][]Neighbor, len(stations))
	for _, l := range cfg.Links {
		if _, ok := stations[l.From]; !ok {
			return nil, fmt.Errorf("link %s-%s references unknown station %q", l.From, l.To, l.From)
		}
		if _, ok := stations[l.To]; !ok {
			return nil, fmt.Errorf("link %s-%s references unknown station %q", l.From, l.To, l.To)
		}
		if l.Time < 0 {
			return nil, fmt.Errorf("link %s-%s has negative time %d", l.From, l.To, l.Time)
		}
		adjacency[l.From] = append(adjacency[l.From], Neighbor{Station: l.To, Line: l.Line, Time: l.Time})
		adjacency[l.To] = append(adjacency[l.To], Neighbor{Station: l.From, Line: l.Line, Time: l.Time})
	}

	return &Network{
		stations:  stations,
		adjacency: adjacency,
		penalty:   cfg.TransferPenalty,
	}, nil
}

// Neighbors returns the adjacency entries of a station in link
// declaration order.
func (n *Network) Neighbors(station string) ([]Neighbor, error) {
	if _, ok := n.stations[station]; !ok {
		return nil, &models.UnknownStationError{Station: station, Known: n.Stations()}
	}
	return n.adjacency[station], nil
}

// HasStation reports whether the station exists in the network.
func (n *Network) HasStation(name string) bool {
	_, ok := n.stations[name]
	return ok
}

// Coordinate returns the latitude and longitude of a station.
func (n *Network) Coordinate(station string) (lat, lon float64, err error) {
	s, ok := n.stations[station]
	if !ok {
		return 0, 0, &models.UnknownStationError{Station: station, Known: n.Stations()}
	}
	return s.Lat, s.Lon, nil
}

// Stations returns all station names in sorted order.
func (n *Network) Stations() []string {
	names := make([]string, 0, len(n.stations))
	for name := range n.stations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TransferPenalty returns the extra minutes charged per line change under
// the time criterion.
func (n *Network) TransferPenalty() int {
	return n.penalty
}

// LinkCount returns the number of declared links (each stored twice).
func (n *Network) LinkCount() int {
	total := 0
	for _, adj := range n.adjacency {
		total += len(adj)
	}
	return total / 2
}
