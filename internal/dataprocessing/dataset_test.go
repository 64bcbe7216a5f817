package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spotifyeda/internal/errors"
)

func sampleTracks() *Dataset {
	return MustDataset(
		[]string{"track_name", "duration_ms", "energy"},
		[][]Value{
			{StringValue("Levitating"), IntValue(203064), FloatValue(0.825)},
			{StringValue("Peaches"), IntValue(198082), MissingValue()},
		},
	)
}

func TestNewDataset_ShapeMismatch(t *testing.T) {
	_, err := NewDataset([]string{"a", "b"}, [][]Value{{IntValue(1)}})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))

	assert.Panics(t, func() {
		MustDataset([]string{"a"}, [][]Value{{IntValue(1), IntValue(2)}})
	})
}

func TestNewDataset_CopiesInput(t *testing.T) {
	cols := []string{"a"}
	rows := [][]Value{{IntValue(1)}}
	ds := MustDataset(cols, rows)

	cols[0] = "changed"
	rows[0][0] = IntValue(99)

	assert.Equal(t, []string{"a"}, ds.Columns())
	assert.Equal(t, IntValue(1), ds.Row(0)[0])
}

func TestDataset_Accessors(t *testing.T) {
	ds := sampleTracks()

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 3, ds.NumColumns())
	assert.Equal(t, 1, ds.ColumnIndex("duration_ms"))
	assert.Equal(t, -1, ds.ColumnIndex("tempo"))
	assert.True(t, ds.HasColumn("energy"))

	v, ok := ds.Value(1, "track_name")
	require.True(t, ok)
	assert.Equal(t, StringValue("Peaches"), v)

	_, ok = ds.Value(0, "tempo")
	assert.False(t, ok)

	rec := ds.Record(0)
	assert.Equal(t, IntValue(203064), rec["duration_ms"])
	assert.Len(t, ds.Records(), 2)

	col, ok := ds.Column("energy")
	require.True(t, ok)
	assert.True(t, col[1].IsMissing())
}

func TestDataset_RowIsACopy(t *testing.T) {
	ds := sampleTracks()
	row := ds.Row(0)
	row[0] = StringValue("mutated")

	v, _ := ds.Value(0, "track_name")
	assert.Equal(t, StringValue("Levitating"), v)
}

func TestDataset_RecordWithDuplicateNames(t *testing.T) {
	ds := MustDataset([]string{"a", "a"}, [][]Value{{IntValue(1), IntValue(2)}})
	assert.Equal(t, IntValue(1), ds.Record(0)["a"])
}

func TestDataset_Select(t *testing.T) {
	ds := sampleTracks()

	sel, err := ds.Select("energy", "track_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"energy", "track_name"}, sel.Columns())
	assert.Equal(t, StringValue("Peaches"), sel.Row(1)[1])

	_, err = ds.Select("tempo")
	assert.Error(t, err)
}

func TestDataset_Equal(t *testing.T) {
	assert.True(t, sampleTracks().Equal(sampleTracks()))

	other := MustDataset([]string{"track_name", "duration_ms", "energy"}, [][]Value{
		{StringValue("Levitating"), IntValue(203064), FloatValue(0.825)},
	})
	assert.False(t, sampleTracks().Equal(other))

	renamed := NormalizeColumns(MustDataset([]string{"Track Name", "duration_ms", "energy"}, nil))
	assert.False(t, MustDataset([]string{"Track Name", "duration_ms", "energy"}, nil).Equal(renamed))
}

func TestDataset_Profile(t *testing.T) {
	ds := MustDataset([]string{"name", "mixed", "empty"}, [][]Value{
		{StringValue("a"), IntValue(1), MissingValue()},
		{StringValue("b"), StringValue("x"), MissingValue()},
		{MissingValue(), FloatValue(2.5), MissingValue()},
	})

	profile := ds.Profile()
	require.Len(t, profile, 3)

	assert.Equal(t, ColumnProfile{Name: "name", Strings: 2, Missing: 1}, profile[0])
	assert.Equal(t, KindString, profile[0].Kind())
	assert.Equal(t, ColumnProfile{Name: "mixed", Strings: 1, Ints: 1, Floats: 1}, profile[1])
	assert.Equal(t, KindString, profile[1].Kind())
	assert.Equal(t, KindMissing, profile[2].Kind())
	assert.Equal(t, KindInt, ColumnProfile{Ints: 3, Missing: 1}.Kind())
	assert.Equal(t, KindFloat, ColumnProfile{Ints: 3, Floats: 1}.Kind())
}
