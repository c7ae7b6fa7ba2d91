// Package aggregate computes the six dashboard summaries over an accident
// dataset. Every function is pure: no I/O, no shared state, same output for
// the same input.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

// TopN is the truncation length of the ranked tables.
const TopN = 10

// Section names one of the six independent summaries.
type Section string

const (
	SectionReasons  Section = "reasons"
	SectionStates   Section = "states"
	SectionWeather  Section = "weather"
	SectionSpeed    Section = "speed"
	SectionAlcohol  Section = "alcohol"
	SectionLocation Section = "location"
)

// Sections lists every section in dashboard order.
var Sections = []Section{
	SectionReasons,
	SectionStates,
	SectionWeather,
	SectionSpeed,
	SectionAlcohol,
	SectionLocation,
}

// Title is the dashboard heading for the section.
func (s Section) Title() string {
	switch s {
	case SectionReasons:
		return "Reasons for Road Accidents"
	case SectionStates:
		return "Top 10 States by Number of Accidents"
	case SectionWeather:
		return "Accidents by Weather Condition"
	case SectionSpeed:
		return "Impact of Speeding on Fatalities"
	case SectionAlcohol:
		return "Alcohol-Related Accidents by State"
	case SectionLocation:
		return "Urban vs Rural Accident Distribution"
	default:
		return string(s)
	}
}

// ParseSection resolves a section name.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// Summary holds all six tables. A section that failed has a nil table and an
// entry in Errors; the others are unaffected.
type Summary struct {
	ReasonCounts           Table
	TopStatesByCount       Table
	TopWeatherByCount      Table
	MeanDeathsBySpeedLimit Table
	AlcoholCountsByState   Table
	UrbanRuralCounts       Table

	Errors map[Section]error
}

// Table returns the table and error for one section.
func (s Summary) Table(sec Section) (Table, error) {
	if err := s.Errors[sec]; err != nil {
		return nil, err
	}
	switch sec {
	case SectionReasons:
		return s.ReasonCounts, nil
	case SectionStates:
		return s.TopStatesByCount, nil
	case SectionWeather:
		return s.TopWeatherByCount, nil
	case SectionSpeed:
		return s.MeanDeathsBySpeedLimit, nil
	case SectionAlcohol:
		return s.AlcoholCountsByState, nil
	case SectionLocation:
		return s.UrbanRuralCounts, nil
	default:
		return nil, fmt.Errorf("unknown section %q", sec)
	}
}

// Aggregate computes every section independently.
func Aggregate(ds *domain.Dataset) Summary {
	s := Summary{Errors: make(map[Section]error)}
	for _, sec := range Sections {
		t, err := Compute(sec, ds)
		if err != nil {
			s.Errors[sec] = err
			continue
		}
		switch sec {
		case SectionReasons:
			s.ReasonCounts = t
		case SectionStates:
			s.TopStatesByCount = t
		case SectionWeather:
			s.TopWeatherByCount = t
		case SectionSpeed:
			s.MeanDeathsBySpeedLimit = t
		case SectionAlcohol:
			s.AlcoholCountsByState = t
		case SectionLocation:
			s.UrbanRuralCounts = t
		}
	}
	return s
}

// Compute runs a single section.
func Compute(sec Section, ds *domain.Dataset) (Table, error) {
	switch sec {
	case SectionReasons:
		return ReasonCounts(ds)
	case SectionStates:
		return TopStatesByCount(ds)
	case SectionWeather:
		return TopWeatherByCount(ds)
	case SectionSpeed:
		return MeanDeathsBySpeedLimit(ds)
	case SectionAlcohol:
		return AlcoholCountsByState(ds)
	case SectionLocation:
		return UrbanRuralCounts(ds)
	default:
		return nil, fmt.Errorf("unknown section %q", sec)
	}
}

// ReasonCounts counts records per reason, largest first. No truncation.
func ReasonCounts(ds *domain.Dataset) (Table, error) {
	c, err := countBy(ds, domain.ColReason, false)
	if err != nil {
		return nil, err
	}
	return sortDescending(c.firstSeen()), nil
}

// TopStatesByCount counts accident IDs per state and keeps the ten largest.
func TopStatesByCount(ds *domain.Dataset) (Table, error) {
	return topByCount(ds, domain.ColState)
}

// TopWeatherByCount counts accident IDs per weather condition and keeps the
// ten largest.
func TopWeatherByCount(ds *domain.Dataset) (Table, error) {
	return topByCount(ds, domain.ColWeather)
}

// MeanDeathsBySpeedLimit averages deaths per distinct speed limit, ordered
// by ascending speed limit.
func MeanDeathsBySpeedLimit(ds *domain.Dataset) (Table, error) {
	if err := checkNonEmpty(ds); err != nil {
		return nil, err
	}

	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[float64]*acc)
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		limit, err := row.Number(domain.ColSpeedLimit)
		if err != nil {
			return nil, err
		}
		deaths, err := row.Number(domain.ColDeaths)
		if err != nil {
			return nil, err
		}
		g, ok := groups[limit]
		if !ok {
			g = &acc{}
			groups[limit] = g
		}
		g.sum += deaths
		g.n++
	}

	limits := make([]float64, 0, len(groups))
	for k := range groups {
		limits = append(limits, k)
	}
	sort.Float64s(limits)

	t := make(Table, len(limits))
	for i, k := range limits {
		g := groups[k]
		t[i] = Entry{Category: domain.FormatNumber(k), Value: g.sum / float64(g.n)}
	}
	return t, nil
}

// AlcoholCountsByState counts alcohol-involved records per state, largest
// first. States without any such record are absent.
func AlcoholCountsByState(ds *domain.Dataset) (Table, error) {
	if err := checkNonEmpty(ds); err != nil {
		return nil, err
	}

	c := newCounter()
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		involved, err := row.Alcohol()
		if err != nil {
			return nil, err
		}
		if !involved {
			continue
		}
		state, err := row.Field(domain.ColState)
		if err != nil {
			return nil, err
		}
		c.add(state)
	}
	return sortDescending(c.firstSeen()), nil
}

// UrbanRuralCounts splits records by road type. Both buckets are always
// present, so their sum equals the record count.
func UrbanRuralCounts(ds *domain.Dataset) (Table, error) {
	if err := checkNonEmpty(ds); err != nil {
		return nil, err
	}

	var urban, rural float64
	for i := 0; i < ds.Len(); i++ {
		code, err := ds.Row(i).Field(domain.ColRoadType)
		if err != nil {
			return nil, err
		}
		if domain.ClassifyRoadType(code) == domain.LocationRural {
			rural++
		} else {
			urban++
		}
	}
	return sortDescending(Table{
		{Category: domain.LocationUrban, Value: urban},
		{Category: domain.LocationRural, Value: rural},
	}), nil
}

func topByCount(ds *domain.Dataset, col string) (Table, error) {
	c, err := countBy(ds, col, true)
	if err != nil {
		return nil, err
	}
	return head(sortDescending(c.grouped()), TopN), nil
}

// countBy groups rows by col. With requireID the Accident_ID must be present
// too, since it is the unit being counted.
func countBy(ds *domain.Dataset, col string, requireID bool) (*counter, error) {
	if err := checkNonEmpty(ds); err != nil {
		return nil, err
	}
	c := newCounter()
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if requireID {
			if _, err := row.Field(domain.ColAccidentID); err != nil {
				return nil, err
			}
		}
		v, err := row.Field(col)
		if err != nil {
			return nil, err
		}
		c.add(v)
	}
	return c, nil
}

func checkNonEmpty(ds *domain.Dataset) error {
	if ds.Len() == 0 {
		return &domain.DataError{Err: domain.ErrEmptyDataset}
	}
	return nil
}
