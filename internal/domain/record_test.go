package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(rows ...[]string) *Dataset {
	return NewDataset(Columns, rows)
}

func TestParseRecord(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		ds := testDataset([]string{"A1", "Overspeeding", "Kerala", "Rainy", "80", "2", "Yes", "Rural Road"})

		rec, err := ParseRecord(ds.Row(0))
		require.NoError(t, err)

		assert.Equal(t, "A1", rec.ID)
		assert.Equal(t, "Overspeeding", rec.Reason)
		assert.Equal(t, "Kerala", rec.State)
		assert.Equal(t, "Rainy", rec.Weather)
		assert.Equal(t, 80.0, rec.SpeedLimit)
		assert.Equal(t, 2.0, rec.Deaths)
		assert.True(t, rec.AlcoholInvolved)
		assert.Equal(t, LocationRural, rec.Location())
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		ds := testDataset([]string{" A2 ", "Fatigue", "Goa", "Clear", " 60 ", "0", "No", "Highway"})

		rec, err := ParseRecord(ds.Row(0))
		require.NoError(t, err)
		assert.Equal(t, "A2", rec.ID)
		assert.Equal(t, 60.0, rec.SpeedLimit)
		assert.False(t, rec.AlcoholInvolved)
		assert.Equal(t, LocationUrban, rec.Location())
	})

	tests := []struct {
		name    string
		row     []string
		column  string
		wantErr error
	}{
		{"empty reason", []string{"A3", "", "Goa", "Clear", "60", "0", "No", "Highway"}, ColReason, ErrMissingField},
		{"short row", []string{"A4", "Fatigue", "Goa"}, ColWeather, ErrMissingField},
		{"bad speed", []string{"A5", "Fatigue", "Goa", "Clear", "fast", "0", "No", "Highway"}, ColSpeedLimit, ErrInvalidNumber},
		{"NaN deaths", []string{"A6", "Fatigue", "Goa", "Clear", "60", "NaN", "No", "Highway"}, ColDeaths, ErrInvalidNumber},
		{"negative deaths", []string{"A7", "Fatigue", "Goa", "Clear", "60", "-1", "No", "Highway"}, ColDeaths, ErrNegativeValue},
		{"lowercase flag", []string{"A8", "Fatigue", "Goa", "Clear", "60", "1", "yes", "Highway"}, ColAlcoholInvolved, ErrInvalidFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(testDataset(tt.row).Row(0))
			require.Error(t, err)

			var de *DataError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.column, de.Column)
			assert.Equal(t, 2, de.Line)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClassifyRoadType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"Rural Road", LocationRural},
		{"R", LocationRural},
		{"Rx-12", LocationRural},
		{"rural", LocationUrban},
		{"Highway", LocationUrban},
		{"", LocationUrban},
		{" Rural", LocationUrban},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRoadType(tt.code), "code %q", tt.code)
	}
}

func TestDataset_MissingColumn(t *testing.T) {
	ds := NewDataset([]string{ColAccidentID, ColReason}, [][]string{{"A1", "Fatigue"}})

	assert.True(t, ds.HasColumn(ColReason))
	assert.False(t, ds.HasColumn(ColState))

	_, err := ds.Row(0).Field(ColState)
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ColState, de.Column)
}

func TestDataset_HeaderBOMAndCopy(t *testing.T) {
	header := []string{"\ufeffAccident_ID", "Reason"}
	rows := [][]string{{"A1", "Fatigue"}}
	ds := NewDataset(header, rows)

	rows[0][1] = "changed"
	header[1] = "changed"

	v, ok := ds.Row(0).Get(ColReason)
	require.True(t, ok)
	assert.Equal(t, "Fatigue", v)
	assert.True(t, ds.HasColumn(ColAccidentID))
	assert.Equal(t, []string{ColAccidentID, ColReason}, ds.Columns())
}

func TestDataset_Records(t *testing.T) {
	ds := testDataset(
		[]string{"A1", "Overspeeding", "Kerala", "Rainy", "80", "2", "Yes", "Rural Road"},
		[]string{"A2", "Fatigue", "Goa", "Clear", "60", "0", "No", "Highway"},
	)
	recs, err := ds.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A2", recs[1].ID)

	var nilDS *Dataset
	assert.Equal(t, 0, nilDS.Len())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "60", FormatNumber(60))
	assert.Equal(t, "62.5", FormatNumber(62.5))
	assert.Equal(t, "150", FormatNumber(150))
}

func TestDataError_Message(t *testing.T) {
	err := &DataError{Line: 4, Column: ColSpeedLimit, Value: "abc", Err: ErrInvalidNumber}
	assert.Equal(t, `data error: line 4: Speed_Limit "abc": not a number`, err.Error())

	err = &DataError{Err: ErrEmptyDataset}
	assert.Equal(t, "data error: dataset is empty", err.Error())
}

func TestNewDatasetWithLines(t *testing.T) {
	rows := [][]string{{"A1", "Overspeeding", "Kerala", "Rainy", "80", "2", "maybe", "Rural Road"}}
	ds := NewDatasetWithLines(Columns, rows, []int{7})

	assert.Equal(t, 7, ds.Row(0).Line())
	_, err := ParseRecord(ds.Row(0))
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 7, de.Line)

	assert.Panics(t, func() { NewDatasetWithLines(Columns, rows, nil) })
}
