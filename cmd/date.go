package cmd

import (
	"fmt"
	"time"
)

type ParsedDate struct {
	Date time.Time

	// Precision of the string the date came from.
	Year  bool
	Month bool
	Day   bool
}

// parseDateRangeFromArgs turns one date into the period it names, or two
// dates into [from, to).
func parseDateRangeFromArgs(args []string, loc *time.Location) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		start, end, err = getImplicitDateRange(args[0], loc)

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1], loc)

	default:
		err = fmt.Errorf("expected one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string, loc *time.Location) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds, loc)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)
	case date.Month:
		end = start.AddDate(0, 1, 0)
	default:
		end = start.AddDate(0, 0, 1)
	}
	return
}

func getExplicitDateRange(startString, endString string, loc *time.Location) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString, loc)
	if err != nil {
		return
	}
	endParsed, err := parseSingleDatestring(endString, loc)
	if err != nil {
		return
	}
	if !endParsed.Date.After(startParsed.Date) {
		err = fmt.Errorf("end date %q is not after start date %q", endString, startString)
		return
	}
	return startParsed.Date, endParsed.Date, nil
}

// parseSingleDatestring accepts 'yyyy', 'yyyy-mm' or 'yyyy-mm-dd'.
func parseSingleDatestring(ds string, loc *time.Location) (date ParsedDate, err error) {
	if loc == nil {
		loc = time.UTC
	}

	var layout string
	switch len(ds) {
	case len("2006"):
		layout, date.Year = "2006", true
	case len("2006-01"):
		layout, date.Month = "2006-01", true
	case len("2006-01-02"):
		layout, date.Day = "2006-01-02", true
	default:
		err = fmt.Errorf("invalid format: %q", ds)
		return
	}

	date.Date, err = time.ParseInLocation(layout, ds, loc)
	if err != nil {
		err = fmt.Errorf("invalid format: %q: %w", ds, err)
	}
	return
}
