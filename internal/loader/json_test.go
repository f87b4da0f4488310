package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumbo-transit/rumbo_core/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("valid definition", func(t *testing.T) {
		cfg, err := Parse(strings.NewReader(`{
			"stations": {
				"B": {"lat": 2.0, "lon": -72.0},
				"A": {"lat": 1.0, "lon": -71.0}
			},
			"links": [["A", "B", "L1", 5]],
			"transfer_penalty": 4
		}`))
		require.NoError(t, err)

		assert.Equal(t, 4, cfg.TransferPenalty)
		require.Len(t, cfg.Stations, 2)
		assert.Equal(t, models.Station{Name: "A", Lat: 1.0, Lon: -71.0}, cfg.Stations[0])
		assert.Equal(t, models.Station{Name: "B", Lat: 2.0, Lon: -72.0}, cfg.Stations[1])
		require.Len(t, cfg.Links, 1)
		assert.Equal(t, models.Link{From: "A", To: "B", Line: "L1", Time: 5}, cfg.Links[0])
	})

	t.Run("stations sorted regardless of map order", func(t *testing.T) {
		cfg, err := Parse(strings.NewReader(`{
			"stations": {"Z": {}, "M": {}, "A": {}},
			"links": [],
			"transfer_penalty": 0
		}`))
		require.NoError(t, err)

		names := make([]string, len(cfg.Stations))
		for i, s := range cfg.Stations {
			names[i] = s.Name
		}
		assert.Equal(t, []string{"A", "M", "Z"}, names)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`{"stations": `))
		assert.Error(t, err)
	})

	t.Run("link row with wrong arity", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`{
			"stations": {"A": {}, "B": {}},
			"links": [["A", "B", "L1"]],
			"transfer_penalty": 0
		}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "4 elements")
	})

	t.Run("link row with non-numeric time", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`{
			"stations": {"A": {}, "B": {}},
			"links": [["A", "B", "L1", "five"]],
			"transfer_penalty": 0
		}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "link row time")
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads definition from disk", func(t *testing.T) {
		cfg, err := LoadFile("testdata/mini_network.json")
		require.NoError(t, err)

		assert.Len(t, cfg.Stations, 3)
		assert.Len(t, cfg.Links, 2)
		assert.Equal(t, 4, cfg.TransferPenalty)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile("testdata/does_not_exist.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open network file")
	})
}
