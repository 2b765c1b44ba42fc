// Package history reads a streaming-service viewing-history export.
package history

import (
	"time"

	"github.com/ademuri/netflix-recap/internal/title"
)

// Record is one row of the export.
type Record struct {
	Profile      string
	Title        string
	Start        time.Time
	Duration     time.Duration
	Device       string
	Supplemental string
}

// IsSupplemental reports whether the row is a trailer, hook or other extra.
func (r Record) IsSupplemental() bool {
	return r.Supplemental != ""
}

// Viewing is a Record with its title resolved to a show.
type Viewing struct {
	Record
	title.Info
}

// Normalize resolves the title of every record, keeping input order.
func Normalize(records []Record) []Viewing {
	viewings := make([]Viewing, 0, len(records))
	for _, r := range records {
		viewings = append(viewings, Viewing{Record: r, Info: title.Parse(r.Title)})
	}
	return viewings
}
