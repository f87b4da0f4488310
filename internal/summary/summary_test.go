package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/heuristic"
	"github.com/rumbo-transit/rumbo_core/internal/models"
	"github.com/rumbo-transit/rumbo_core/internal/routing"
	"github.com/rumbo-transit/rumbo_core/internal/rules"
)

func bogotaConfig() models.NetworkConfig {
	return models.NetworkConfig{
		Stations: []models.Station{
			{Name: "Portal del Norte", Lat: 4.7546, Lon: -74.0459},
			{Name: "Toberín", Lat: 4.7479, Lon: -74.0475},
			{Name: "Calle 146", Lat: 4.7336, Lon: -74.0531},
			{Name: "Calle 116 - Pepe Sierra", Lat: 4.6960, Lon: -74.0565},
			{Name: "Héroes", Lat: 4.6672, Lon: -74.0631},
			{Name: "Suba - Calle 95", Lat: 4.6890, Lon: -74.0775},
			{Name: "Shaio", Lat: 4.6997, Lon: -74.0860},
			{Name: "21 Ángeles", Lat: 4.7127, Lon: -74.0935},
			{Name: "La Campiña", Lat: 4.7334, Lon: -74.0962},
			{Name: "Portal Suba", Lat: 4.7459, Lon: -74.0937},
		},
		Links: []models.Link{
			{From: "Portal del Norte", To: "Toberín", Line: "AUTONORTE", Time: 5},
			{From: "Toberín", To: "Calle 146", Line: "AUTONORTE", Time: 4},
			{From: "Calle 146", To: "Calle 116 - Pepe Sierra", Line: "AUTONORTE", Time: 7},
			{From: "Calle 116 - Pepe Sierra", To: "Héroes", Line: "AUTONORTE", Time: 6},
			{From: "Héroes", To: "Suba - Calle 95", Line: "CONEXION", Time: 6},
			{From: "Suba - Calle 95", To: "Shaio", Line: "SUBA", Time: 5},
			{From: "Shaio", To: "21 Ángeles", Line: "SUBA", Time: 4},
			{From: "21 Ángeles", To: "La Campiña", Line: "SUBA", Time: 4},
			{From: "La Campiña", To: "Portal Suba", Line: "SUBA", Time: 5},
		},
		TransferPenalty: 4,
	}
}

func TestSummarizeFullTrip(t *testing.T) {
	net, err := graph.NewNetwork(bogotaConfig())
	require.NoError(t, err)
	eng := rules.NewEngine(net)
	planner := routing.NewPlanner(net, eng, heuristic.NewGeodesic(net))

	states, cost, err := planner.FindPath("Portal del Norte", "Portal Suba", models.CriterionTime)
	require.NoError(t, err)

	route, err := Summarize(net, eng, states, models.CriterionTime, cost)
	require.NoError(t, err)

	assert.Equal(t, models.CriterionTime, route.Criterion)
	assert.Equal(t, 9, route.Hops)
	assert.Equal(t, 2, route.Transfers)
	assert.Equal(t, 54, route.TotalTime)

	// The independent recomputation must agree with the search's own
	// accumulated cost under the time criterion.
	assert.Equal(t, cost, route.TotalTime)

	require.Len(t, route.Legs, 9)

	t.Run("first leg carries no penalty", func(t *testing.T) {
		first := route.Legs[0]
		assert.False(t, first.Transfer)
		assert.Equal(t, 0, first.Penalty)
		assert.Equal(t, "Portal del Norte", first.From)
		assert.Equal(t, "Toberín", first.To)
		assert.Equal(t, 5, first.Time)
	})

	t.Run("penalty applies exactly once per line change", func(t *testing.T) {
		var transfers []int
		penaltyTotal := 0
		for i, leg := range route.Legs {
			if leg.Transfer {
				transfers = append(transfers, i)
			}
			penaltyTotal += leg.Penalty
		}
		assert.Equal(t, []int{4, 5}, transfers) // onto CONEXION, onto SUBA
		assert.Equal(t, 8, penaltyTotal)
	})
}

func TestSummarizeAgreesWithSearchCost(t *testing.T) {
	net, err := graph.NewNetwork(bogotaConfig())
	require.NoError(t, err)
	eng := rules.NewEngine(net)
	planner := routing.NewPlanner(net, eng, heuristic.NewGeodesic(net))

	pairs := [][2]string{
		{"Portal del Norte", "Portal Suba"},
		{"Toberín", "Shaio"},
		{"Héroes", "La Campiña"},
		{"Portal Suba", "Portal del Norte"},
	}

	for _, pair := range pairs {
		t.Run(pair[0]+" to "+pair[1], func(t *testing.T) {
			states, cost, err := planner.FindPath(pair[0], pair[1], models.CriterionTime)
			require.NoError(t, err)

			route, err := Summarize(net, eng, states, models.CriterionTime, cost)
			require.NoError(t, err)
			assert.Equal(t, cost, route.TotalTime)
		})
	}
}

func TestSummarizeSingleStatePath(t *testing.T) {
	net, err := graph.NewNetwork(bogotaConfig())
	require.NoError(t, err)
	eng := rules.NewEngine(net)

	route, err := Summarize(net, eng, []models.SearchState{{Station: "Héroes"}}, models.CriterionTime, 0)
	require.NoError(t, err)

	assert.Empty(t, route.Legs)
	assert.Zero(t, route.TotalTime)
	assert.Zero(t, route.Transfers)
	assert.Zero(t, route.Hops)
}

func TestSummarizeResolvesParallelLinksByLine(t *testing.T) {
	net, err := graph.NewNetwork(models.NetworkConfig{
		Stations: []models.Station{{Name: "A"}, {Name: "B"}},
		Links: []models.Link{
			{From: "A", To: "B", Line: "L1", Time: 1},
			{From: "A", To: "B", Line: "L2", Time: 2},
		},
		TransferPenalty: 4,
	})
	require.NoError(t, err)
	eng := rules.NewEngine(net)

	states := []models.SearchState{
		{Station: "A"},
		{Station: "B", Line: "L2"},
	}
	route, err := Summarize(net, eng, states, models.CriterionTime, 2)
	require.NoError(t, err)

	require.Len(t, route.Legs, 1)
	assert.Equal(t, "L2", route.Legs[0].Line)
	assert.Equal(t, 2, route.Legs[0].Time)
}

func TestSummarizeRejectsMissingLink(t *testing.T) {
	net, err := graph.NewNetwork(bogotaConfig())
	require.NoError(t, err)
	eng := rules.NewEngine(net)

	states := []models.SearchState{
		{Station: "Portal del Norte"},
		{Station: "Shaio", Line: "SUBA"},
	}
	_, err = Summarize(net, eng, states, models.CriterionTime, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no link")
}
