package models

// Criterion selects the cost dimension a route search optimizes.
type Criterion string

const (
	CriterionTime      Criterion = "time"
	CriterionHops      Criterion = "hops"
	CriterionTransfers Criterion = "transfers"
)

// ParseCriterion maps user input onto the closed criterion set.
func ParseCriterion(s string) (Criterion, error) {
	c := Criterion(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports whether the criterion is one of the supported values.
func (c Criterion) Validate() error {
	switch c {
	case CriterionTime, CriterionHops, CriterionTransfers:
		return nil
	default:
		return &UnsupportedCriterionError{Criterion: string(c)}
	}
}

// Station is a named stop with a geocoordinate.
type Station struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Link is an undirected connection between two stations on a line.
// Time is the base traversal time in minutes.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
	Line string `json:"line"`
	Time int    `json:"time_minutes"`
}

// NetworkConfig is the external network definition consumed by the graph.
// TransferPenalty is the extra minutes charged when a path changes line.
type NetworkConfig struct {
	Stations        []Station `json:"stations"`
	Links           []Link    `json:"links"`
	TransferPenalty int       `json:"transfer_penalty"`
}

// SearchState identifies a position in the search space: the current
// station plus the line used to arrive there. Line is empty for the start
// state. Two states at the same station on different lines are distinct
// because whether the next edge is a transfer depends on the arrival line.
type SearchState struct {
	Station string `json:"station"`
	Line    string `json:"line,omitempty"`
}

// Leg is one traversed link in a summarized route.
type Leg struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Line     string `json:"line"`
	Transfer bool   `json:"transfer"`
	Time     int    `json:"time_minutes"`
	Penalty  int    `json:"penalty_minutes"`
}

// Route is the presentable result of a search: the state path, the
// per-leg breakdown, and the three aggregates recomputed independently of
// the search's internal cost accounting.
type Route struct {
	Criterion Criterion     `json:"criterion"`
	Cost      int           `json:"cost"`
	States    []SearchState `json:"states"`
	Legs      []Leg         `json:"legs"`
	TotalTime int           `json:"total_time_minutes"`
	Transfers int           `json:"transfers"`
	Hops      int           `json:"hops"`
}
