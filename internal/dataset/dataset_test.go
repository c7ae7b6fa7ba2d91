package dataset

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/couchcryptid/road-accident-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Accident_ID,Reason,State,Weather_Conditions,Speed_Limit,Number_of_Deaths,Alcohol_Involved,Road_Type
1,Overspeeding,Kerala,Rainy,80,2,Yes,Rural Road
2,Drunk Driving,Goa,Clear,60,1,Yes,Highway
3,Fatigue,"Tamil Nadu",Foggy,100,0,No,City Street
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, domain.Columns, ds.Columns())

	rec, err := domain.ParseRecord(ds.Row(2))
	require.NoError(t, err)
	assert.Equal(t, "Tamil Nadu", rec.State)
	assert.Equal(t, 100.0, rec.SpeedLimit)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader("Accident_ID,Reason\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestReadCSV_RaggedRows(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader("Accident_ID,Reason,State\n1,Fatigue\n"))
	require.NoError(t, err)

	_, ok := ds.Row(0).Get(domain.ColState)
	assert.False(t, ok)
}

func TestReadCSV_LineNumbersFollowMultilineCells(t *testing.T) {
	in := "Accident_ID,Reason,State,Weather_Conditions,Speed_Limit,Number_of_Deaths,Alcohol_Involved,Road_Type\n" +
		"1,\"Overspeeding\non a bend\",Kerala,Rainy,80,2,Yes,Rural Road\n" +
		"2,Fatigue,Goa,Clear,fast,0,No,Highway\n"
	ds, err := ReadCSV(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Row(0).Line())
	assert.Equal(t, 4, ds.Row(1).Line())

	_, err = ds.Records()
	var de *domain.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 4, de.Line)
	assert.Equal(t, domain.ColSpeedLimit, de.Column)
}

func TestCSVLoader_MissingFile(t *testing.T) {
	l := &CSVLoader{Path: filepath.Join(t.TempDir(), "nope.csv")}
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSQLiteLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accidents.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE accidents (
		Accident_ID TEXT, Reason TEXT, State TEXT, Weather_Conditions TEXT,
		Speed_Limit INTEGER, Number_of_Deaths REAL, Alcohol_Involved TEXT, Road_Type TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO accidents VALUES
		('1','Overspeeding','Kerala','Rainy',80,2,'Yes','Rural Road'),
		('2','Fatigue','Goa','Clear',60,0.5,'No',NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ds, err := NewLoader(path, "accidents").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	rec, err := domain.ParseRecord(ds.Row(0))
	require.NoError(t, err)
	assert.Equal(t, 80.0, rec.SpeedLimit)
	assert.Equal(t, 2.0, rec.Deaths)

	_, ok := ds.Row(1).Get(domain.ColRoadType)
	assert.False(t, ok)
	deaths, err := ds.Row(1).Number(domain.ColDeaths)
	require.NoError(t, err)
	assert.Equal(t, 0.5, deaths)
	assert.Equal(t, 3, ds.Row(1).Line())
}

func TestSQLiteLoader_RejectsTableName(t *testing.T) {
	l := &SQLiteLoader{Path: filepath.Join(t.TempDir(), "x.db"), Table: `accidents"; DROP TABLE x; --`}
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestNewLoader(t *testing.T) {
	assert.IsType(t, &SQLiteLoader{}, NewLoader("data/accidents.SQLITE", "t"))
	assert.IsType(t, &SQLiteLoader{}, NewLoader("a.db", "t"))
	assert.IsType(t, &CSVLoader{}, NewLoader("accident.csv", "t"))
	assert.IsType(t, &CSVLoader{}, NewLoader("accident", "t"))
}

// --- Source ---

type countingLoader struct {
	calls int
	err   error
	ds    *domain.Dataset
}

func (l *countingLoader) Load(_ context.Context) (*domain.Dataset, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.ds, nil
}

func TestSource_LoadsOnce(t *testing.T) {
	ds, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	loader := &countingLoader{ds: ds}
	src := NewSource(loader, discardLogger(), observability.NewMetricsForTesting())

	require.Error(t, src.CheckReadiness(context.Background()))

	first, err := src.Get(context.Background())
	require.NoError(t, err)
	second, err := src.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.calls)
	assert.NoError(t, src.CheckReadiness(context.Background()))
}

func TestSource_RetriesAfterFailure(t *testing.T) {
	loader := &countingLoader{err: errors.New("disk on fire")}
	src := NewSource(loader, discardLogger(), observability.NewMetricsForTesting())

	_, err := src.Get(context.Background())
	require.Error(t, err)
	require.Error(t, src.CheckReadiness(context.Background()))

	loader.err = nil
	loader.ds = domain.NewDataset(domain.Columns, nil)
	_, err = src.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}
