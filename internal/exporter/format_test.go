package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"spotifyeda/internal/dataprocessing"
)

func TestCellValue(t *testing.T) {
	tests := []struct {
		name string
		v    dataprocessing.Value
		want interface{}
	}{
		{"string", dataprocessing.StringValue("pop"), "pop"},
		{"int", dataprocessing.IntValue(1500), int64(1500)},
		{"float", dataprocessing.FloatValue(0.5), 0.5},
		{"infinity", dataprocessing.FloatValue(math.Inf(-1)), "-inf"},
		{"missing", dataprocessing.MissingValue(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CellValue(tt.v))
		})
	}
}

func TestRecordValues(t *testing.T) {
	ds := dataprocessing.MustDataset([]string{"name", "tempo"}, [][]dataprocessing.Value{
		{dataprocessing.StringValue("x"), dataprocessing.FloatValue(120.5)},
	})

	assert.Equal(t, []map[string]interface{}{{"name": "x", "tempo": 120.5}}, RecordValues(ds))
}
