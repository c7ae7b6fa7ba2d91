package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dataset column names.
const (
	ColAccidentID      = "Accident_ID"
	ColReason          = "Reason"
	ColState           = "State"
	ColWeather         = "Weather_Conditions"
	ColSpeedLimit      = "Speed_Limit"
	ColDeaths          = "Number_of_Deaths"
	ColAlcoholInvolved = "Alcohol_Involved"
	ColRoadType        = "Road_Type"
)

// Columns lists every column an AccidentRecord is built from, in file order.
var Columns = []string{
	ColAccidentID,
	ColReason,
	ColState,
	ColWeather,
	ColSpeedLimit,
	ColDeaths,
	ColAlcoholInvolved,
	ColRoadType,
}

// Location buckets derived from Road_Type.
const (
	LocationRural = "Rural"
	LocationUrban = "Urban"
)

// AccidentRecord is one fully parsed dataset row.
type AccidentRecord struct {
	ID              string  `json:"accident_id"`
	Reason          string  `json:"reason"`
	State           string  `json:"state"`
	Weather         string  `json:"weather_conditions"`
	SpeedLimit      float64 `json:"speed_limit"`
	Deaths          float64 `json:"number_of_deaths"`
	AlcoholInvolved bool    `json:"alcohol_involved"`
	RoadType        string  `json:"road_type"`
}

// Location classifies the record as Rural or Urban.
func (r AccidentRecord) Location() string {
	return ClassifyRoadType(r.RoadType)
}

// ClassifyRoadType returns LocationRural when the code starts with 'R'
// and LocationUrban otherwise.
func ClassifyRoadType(code string) string {
	if strings.HasPrefix(code, "R") {
		return LocationRural
	}
	return LocationUrban
}

// Dataset is an immutable, header-named table of raw rows.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]string
	lines   []int
}

// NewDataset builds a Dataset from a header and its data rows. The slices are
// copied so later changes by the caller are not visible. Rows are numbered by
// position: the header is record 1 and the first data row record 2.
func NewDataset(header []string, rows [][]string) *Dataset {
	ds := &Dataset{
		columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    make([][]string, len(rows)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		ds.columns[i] = h
		if _, dup := ds.index[h]; !dup {
			ds.index[h] = i
		}
	}
	for i, r := range rows {
		ds.rows[i] = append([]string(nil), r...)
	}
	return ds
}

// NewDatasetWithLines is NewDataset with the source line each row starts on.
// lines must be as long as rows; quoted cells spanning several lines make
// these differ from the row position.
func NewDatasetWithLines(header []string, rows [][]string, lines []int) *Dataset {
	if len(lines) != len(rows) {
		panic(fmt.Sprintf("domain: %d line numbers for %d rows", len(lines), len(rows)))
	}
	ds := NewDataset(header, rows)
	ds.lines = append([]int(nil), lines...)
	return ds
}

// Columns returns a copy of the header.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// HasColumn reports whether the header contains col.
func (d *Dataset) HasColumn(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Len returns the number of data rows. A nil Dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Row returns the i-th data row.
func (d *Dataset) Row(i int) Row {
	line := i + 2
	if d.lines != nil {
		line = d.lines[i]
	}
	return Row{ds: d, values: d.rows[i], line: line}
}

// Records parses every row. It stops at the first invalid row.
func (d *Dataset) Records() ([]AccidentRecord, error) {
	out := make([]AccidentRecord, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		rec, err := ParseRecord(d.Row(i))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Row is a read-only view of one dataset row.
type Row struct {
	ds     *Dataset
	values []string
	line   int
}

// Line is the 1-based line the row starts on in a CSV source, or its record
// number (header = 1) for sources without lines such as SQLite.
func (r Row) Line() int { return r.line }

// Get returns the trimmed cell for col. Missing columns, short rows and empty
// cells all report false.
func (r Row) Get(col string) (string, bool) {
	i, ok := r.ds.index[col]
	if !ok || i >= len(r.values) {
		return "", false
	}
	v := strings.TrimSpace(r.values[i])
	if v == "" {
		return "", false
	}
	return v, true
}

// Field returns the cell for col or a DataError when it is missing.
func (r Row) Field(col string) (string, error) {
	v, ok := r.Get(col)
	if !ok {
		return "", &DataError{Line: r.line, Column: col, Err: ErrMissingField}
	}
	return v, nil
}

// Number parses col as a non-negative finite number.
func (r Row) Number(col string) (float64, error) {
	v, err := r.Field(col)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseFloat(v, 64)
	if perr != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &DataError{Line: r.line, Column: col, Value: v, Err: ErrInvalidNumber}
	}
	if n < 0 {
		return 0, &DataError{Line: r.line, Column: col, Value: v, Err: ErrNegativeValue}
	}
	return n, nil
}

// Alcohol parses the Alcohol_Involved flag.
func (r Row) Alcohol() (bool, error) {
	v, err := r.Field(ColAlcoholInvolved)
	if err != nil {
		return false, err
	}
	switch v {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	default:
		return false, &DataError{Line: r.line, Column: ColAlcoholInvolved, Value: v, Err: ErrInvalidFlag}
	}
}

// ParseRecord validates and converts a row into an AccidentRecord.
func ParseRecord(r Row) (AccidentRecord, error) {
	var rec AccidentRecord
	var err error

	text := []struct {
		col string
		dst *string
	}{
		{ColAccidentID, &rec.ID},
		{ColReason, &rec.Reason},
		{ColState, &rec.State},
		{ColWeather, &rec.Weather},
		{ColRoadType, &rec.RoadType},
	}
	for _, f := range text {
		if *f.dst, err = r.Field(f.col); err != nil {
			return AccidentRecord{}, err
		}
	}

	if rec.SpeedLimit, err = r.Number(ColSpeedLimit); err != nil {
		return AccidentRecord{}, err
	}
	if rec.Deaths, err = r.Number(ColDeaths); err != nil {
		return AccidentRecord{}, err
	}
	if rec.AlcoholInvolved, err = r.Alcohol(); err != nil {
		return AccidentRecord{}, err
	}
	return rec, nil
}

// FormatNumber renders a number without trailing zeros, e.g. 60 -> "60",
// 62.5 -> "62.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String implements fmt.Stringer for log output.
func (r AccidentRecord) String() string {
	return fmt.Sprintf("%s (%s, %s)", r.ID, r.State, r.Reason)
}
