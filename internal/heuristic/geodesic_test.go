package heuristic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/models"
)

func sampleEstimator(t *testing.T) *Geodesic {
	t.Helper()
	net, err := graph.NewNetwork(models.NetworkConfig{
		Stations: []models.Station{
			{Name: "Origen", Lat: 4.0, Lon: -74.0},
			{Name: "Un Grado Norte", Lat: 5.0, Lon: -74.0},
			{Name: "Portal del Norte", Lat: 4.7546, Lon: -74.0459},
			{Name: "Portal Suba", Lat: 4.7459, Lon: -74.0937},
		},
	})
	require.NoError(t, err)
	return NewGeodesic(net)
}

func TestEstimateTime(t *testing.T) {
	est := sampleEstimator(t)

	t.Run("one degree of latitude", func(t *testing.T) {
		// 6371 km × π/180 ≈ 111.195 km, at 2.0 min/km
		h, err := est.Estimate(models.CriterionTime, "Origen", "Un Grado Norte")
		require.NoError(t, err)
		assert.InDelta(t, 222.39, h, 0.01)
	})

	t.Run("same station estimates zero", func(t *testing.T) {
		h, err := est.Estimate(models.CriterionTime, "Portal Suba", "Portal Suba")
		require.NoError(t, err)
		assert.Zero(t, h)
	})

	t.Run("symmetric", func(t *testing.T) {
		forward, err := est.Estimate(models.CriterionTime, "Portal del Norte", "Portal Suba")
		require.NoError(t, err)
		backward, err := est.Estimate(models.CriterionTime, "Portal Suba", "Portal del Norte")
		require.NoError(t, err)
		assert.InDelta(t, forward, backward, 1e-9)
		assert.Greater(t, forward, 0.0)
	})

	t.Run("unknown station", func(t *testing.T) {
		_, err := est.Estimate(models.CriterionTime, "Nowhere", "Portal Suba")
		var unknown *models.UnknownStationError
		assert.True(t, errors.As(err, &unknown))
	})
}

func TestEstimateDisabledForNonTimeCriteria(t *testing.T) {
	est := sampleEstimator(t)

	for _, criterion := range []models.Criterion{models.CriterionHops, models.CriterionTransfers} {
		t.Run(string(criterion), func(t *testing.T) {
			h, err := est.Estimate(criterion, "Origen", "Un Grado Norte")
			require.NoError(t, err)
			assert.Zero(t, h)
		})
	}

	t.Run("no coordinate lookup for disabled criteria", func(t *testing.T) {
		// Unknown stations are fine when the estimate is constant zero.
		h, err := est.Estimate(models.CriterionHops, "Nowhere", "Nowhere Else")
		require.NoError(t, err)
		assert.Zero(t, h)
	})
}
