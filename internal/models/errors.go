package models

import (
	"errors"
	"fmt"
)

// ErrNoRouteFound is returned when the search frontier empties without
// reaching the destination. Callers report "no route" to the end user.
var ErrNoRouteFound = errors.New("no route found")

// UnknownStationError names a station that is not part of the network.
// Known optionally carries the full station list for caller-side display.
type UnknownStationError struct {
	Station string
	Known   []string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.Station)
}

// UnsupportedCriterionError signals a criterion outside the enumerated set.
type UnsupportedCriterionError struct {
	Criterion string
}

func (e *UnsupportedCriterionError) Error() string {
	return fmt.Sprintf("unsupported criterion %q", e.Criterion)
}
