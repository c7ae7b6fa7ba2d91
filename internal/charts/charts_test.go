package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/couchcryptid/road-accident-dashboard/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EverySection(t *testing.T) {
	tables := map[aggregate.Section]aggregate.Table{
		aggregate.SectionReasons:  {{Category: "Overspeeding", Value: 3}, {Category: "Fatigue", Value: 2}},
		aggregate.SectionStates:   {{Category: "Kerala", Value: 3}, {Category: "Goa", Value: 2}},
		aggregate.SectionWeather:  {{Category: "Clear", Value: 3}, {Category: "Rainy", Value: 2}},
		aggregate.SectionSpeed:    {{Category: "40", Value: 0}, {Category: "60", Value: 2}},
		aggregate.SectionAlcohol:  {{Category: "Goa", Value: 2}},
		aggregate.SectionLocation: {{Category: "Urban", Value: 4}, {Category: "Rural", Value: 2}},
	}

	for _, sec := range aggregate.Sections {
		t.Run(string(sec), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, sec, tables[sec]))

			html := buf.String()
			assert.Contains(t, html, "<html")
			assert.Contains(t, html, sec.Title())
			for _, c := range tables[sec].Categories() {
				assert.Contains(t, html, c)
			}
		})
	}
}

func TestRender_LocationColoursByPosition(t *testing.T) {
	table := aggregate.Table{{Category: "Rural", Value: 3}, {Category: "Urban", Value: 1}}
	r, err := Build(aggregate.SectionLocation, table)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	html := buf.String()

	rural := strings.Index(html, `"name":"Rural"`)
	urban := strings.Index(html, `"name":"Urban"`)
	orange := strings.Index(html, "#ff7f0e")
	blue := strings.Index(html, "#1f77b4")
	require.True(t, rural >= 0 && urban >= 0 && orange >= 0 && blue >= 0)
	assert.Less(t, rural, orange, "first slice is orange")
	assert.Less(t, orange, urban)
	assert.Less(t, urban, blue, "second slice is blue")
}

func TestRender_StatesValueAxisName(t *testing.T) {
	var buf bytes.Buffer
	table := aggregate.Table{{Category: "Kerala", Value: 3}, {Category: "Goa", Value: 2}}
	require.NoError(t, Render(&buf, aggregate.SectionStates, table))

	html := buf.String()
	assert.Contains(t, html, `"xAxis":[{"name":"Number of Accidents"`)
	assert.NotContains(t, html, `"yAxis":[{"name":"Number of Accidents"`)
	assert.Contains(t, html, `"data":["Goa","Kerala"]`)
}

func TestRender_SpeedSeriesName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, aggregate.SectionSpeed, aggregate.Table{{Category: "60", Value: 1.5}}))
	assert.Contains(t, buf.String(), "Avg Deaths")
	assert.Contains(t, buf.String(), "Average Deaths")
}

func TestRender_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, aggregate.SectionAlcohol, aggregate.Table{}))
	assert.Contains(t, buf.String(), aggregate.SectionAlcohol.Title())
}

func TestBuild_UnknownSection(t *testing.T) {
	_, err := Build("bogus", nil)
	assert.Error(t, err)
}

func TestReversed(t *testing.T) {
	assert.Equal(t, []string{"c", "b", "a"}, reversed([]string{"a", "b", "c"}))
	assert.Equal(t, []float64{3, 2, 1}, reversedFloats([]float64{1, 2, 3}))
}
