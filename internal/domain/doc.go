// Package domain models road-accident records and the alert vocabulary shared
// by the aggregation and alerting packages.
//
// # Data Source
//
// The dataset is a header-named table, usually a CSV export (accident.csv) or
// a SQLite table with the same columns:
//
//	Accident_ID, Reason, State, Weather_Conditions, Speed_Limit,
//	Number_of_Deaths, Alcohol_Involved, Road_Type
//
// It is loaded once per process and never mutated afterwards.
//
// # Column Conventions
//
// Accident_ID is the count unit and must be unique across rows.
//
// Speed_Limit and Number_of_Deaths are decimal numbers, zero or greater.
// Surrounding whitespace is ignored; anything else that does not parse is a
// [DataError].
//
// Alcohol_Involved is the literal "Yes" or "No" (case-sensitive).
//
// Road_Type is a free-form code. Only the first character matters:
//
//	"R..." -> Rural   (e.g. "Rural Road", "R2")
//	other  -> Urban   (e.g. "Highway", "City Street", "road")
//
// The check is an exact, case-sensitive match on the first byte, so
// lowercase "rural" counts as Urban.
//
// # Missing Values
//
// An absent column and an empty cell are the same thing: the field is
// missing. Sections that need a missing field fail with a [DataError];
// sections that do not read it are unaffected.
package domain
