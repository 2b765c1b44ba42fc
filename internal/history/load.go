package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrMissingColumn = errors.New("missing required column")

// Column names used by the different export variants.
const (
	ColumnTitle        = "Title"
	ColumnStartTime    = "Start Time"
	ColumnDate         = "Date"
	ColumnDuration     = "Duration"
	ColumnDevice       = "Device Type"
	ColumnSupplemental = "Supplemental Video Type"
	ColumnProfile      = "Profile Name"
)

// Timestamp layouts tried in order. Netflix writes "Start Time" in UTC using
// the first layout; the older "Date" export uses US short dates.
var startLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/06 15:04",
	"1/2/06",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

type Options struct {
	// Only keep rows for this profile. Empty keeps everything.
	Profile string

	// Zone the export's timestamps are written in. Defaults to UTC.
	Location *time.Location
}

// Export is the parsed content of one viewing-history file.
type Export struct {
	Path    string
	Records []Record

	// False for exports without a Duration column; durations are then zero.
	HasDuration bool

	// Rows dropped because their start time could not be parsed.
	Dropped int
}

func Load(path string, opts Options) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	export, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	export.Path = path
	return export, nil
}

// Parse reads CSV rows from r. Rows whose start time cannot be parsed are
// dropped; unparseable durations become zero.
func Parse(r io.Reader, opts Options) (*Export, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	titleCol, ok := columns[ColumnTitle]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ColumnTitle, ErrMissingColumn)
	}
	startCol, ok := columns[ColumnStartTime]
	if !ok {
		startCol, ok = columns[ColumnDate]
		if !ok {
			return nil, fmt.Errorf("%q or %q: %w", ColumnStartTime, ColumnDate, ErrMissingColumn)
		}
	}
	durationCol, hasDuration := columns[ColumnDuration]
	deviceCol, hasDevice := columns[ColumnDevice]
	supplementalCol, hasSupplemental := columns[ColumnSupplemental]
	profileCol, hasProfile := columns[ColumnProfile]

	field := func(row []string, col int, present bool) string {
		if !present || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	export := &Export{HasDuration: hasDuration}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		profile := field(row, profileCol, hasProfile)
		if opts.Profile != "" && !strings.EqualFold(profile, opts.Profile) {
			continue
		}

		rawStart := field(row, startCol, true)
		start, err := ParseStart(rawStart, loc)
		if err != nil {
			log.Debug().Int("line", line).Str("value", rawStart).Msg("Dropping row with unparseable start time")
			export.Dropped++
			continue
		}

		export.Records = append(export.Records, Record{
			Profile:      profile,
			Title:        field(row, titleCol, true),
			Start:        start,
			Duration:     ParseDuration(field(row, durationCol, hasDuration)),
			Device:       field(row, deviceCol, hasDevice),
			Supplemental: field(row, supplementalCol, hasSupplemental),
		})
	}

	return export, nil
}

// ParseStart parses a start timestamp written in loc.
func ParseStart(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q: unknown format", s)
}

// ParseDuration converts "HH:MM:SS" or "MM:SS" to a duration. Anything else,
// including negative components, is zero.
func ParseDuration(s string) time.Duration {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	var seconds int64
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		seconds = seconds*60 + n
	}
	return time.Duration(seconds) * time.Second
}
