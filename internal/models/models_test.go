package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		input    string
		expected Criterion
		wantErr  bool
	}{
		{"time", CriterionTime, false},
		{"hops", CriterionHops, false},
		{"transfers", CriterionTransfers, false},
		{"fastest", "", true},
		{"", "", true},
		{"TIME", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseCriterion(tt.input)
			if tt.wantErr {
				var unsupported *UnsupportedCriterionError
				assert.True(t, errors.As(err, &unsupported))
				assert.Equal(t, tt.input, unsupported.Criterion)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, c)
			}
		})
	}
}

func TestUnknownStationError(t *testing.T) {
	err := &UnknownStationError{Station: "Calle 95", Known: []string{"Suba - Calle 95"}}
	assert.Contains(t, err.Error(), "Calle 95")
}

func TestUnsupportedCriterionError(t *testing.T) {
	err := &UnsupportedCriterionError{Criterion: "fastest"}
	assert.Contains(t, err.Error(), "fastest")
}
