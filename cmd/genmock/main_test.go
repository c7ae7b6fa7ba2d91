package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/couchcryptid/road-accident-dashboard/internal/aggregate"
	"github.com/couchcryptid/road-accident-dashboard/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, generate(&a, 50, 7))
	require.NoError(t, generate(&b, 50, 7))
	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	require.NoError(t, generate(&c, 50, 8))
	assert.NotEqual(t, a.String(), c.String())
}

func TestGenerate_LoadsAndAggregates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, generate(&buf, 200, 1))

	ds, err := dataset.ReadCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 200, ds.Len())

	sum := aggregate.Aggregate(ds)
	assert.Empty(t, sum.Errors)
	assert.InDelta(t, 200, sum.ReasonCounts.Total(), 0)
	assert.InDelta(t, 200, sum.UrbanRuralCounts.Total(), 0)
	assert.LessOrEqual(t, len(sum.TopStatesByCount), aggregate.TopN)
}
