package heuristic

import (
	"math"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/models"
)

const (
	earthRadiusKm = 6371.0
	// minutesPerKm converts great-circle distance into an optimistic
	// travel-time estimate. Chosen conservatively so the estimate stays
	// below the true remaining time on networks with short trunk edges.
	minutesPerKm = 2.0
)

// Estimator estimates the remaining cost from a station to the goal under
// a criterion. Estimates must never exceed the true remaining cost for
// the search to stay optimal.
type Estimator interface {
	Estimate(criterion models.Criterion, station, goal string) (float64, error)
}

// Geodesic estimates remaining travel time from great-circle distance.
// It applies only under the time criterion; hop and transfer counts have
// no geographic lower bound, so those criteria get a zero estimate and
// the search degrades to uniform-cost order.
type Geodesic struct {
	net *graph.Network
}

// NewGeodesic builds an estimator over the network's station coordinates.
func NewGeodesic(net *graph.Network) *Geodesic {
	return &Geodesic{net: net}
}

// Estimate returns distance-km × minutesPerKm for the time criterion and
// zero for hops and transfers.
func (g *Geodesic) Estimate(criterion models.Criterion, station, goal string) (float64, error) {
	if criterion != models.CriterionTime {
		return 0, nil
	}

	lat1, lon1, err := g.net.Coordinate(station)
	if err != nil {
		return 0, err
	}
	lat2, lon2, err := g.net.Coordinate(goal)
	if err != nil {
		return 0, err
	}

	return haversineKm(lat1, lon1, lat2, lon2) * minutesPerKm, nil
}

// haversineKm computes the great-circle distance between two coordinates
// in kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
