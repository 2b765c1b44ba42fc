package analysis

import (
	"sort"
	"time"

	"github.com/ademuri/netflix-recap/internal/history"
)

const dateFormat = "2006-01-02"

// DefaultBingeThreshold is the number of episodes of one show in one day that
// makes a binge session.
const DefaultBingeThreshold = 4

// calendarDay drops the clock, keeping the date as seen in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ActiveDates returns the distinct calendar dates with at least one viewing,
// ascending.
func ActiveDates(viewings []history.Viewing, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, v := range viewings {
		d := calendarDay(v.Start, loc)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// LongestStreak is the longest run of consecutive calendar days in dates,
// which must be sorted ascending and distinct.
func LongestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDate(0, 0, 1).Equal(dates[i]) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

type Binges struct {
	Sessions int
	Biggest  int
	Show     string
	Date     time.Time
}

type bingeKey struct {
	date time.Time
	show string
}

// DetectBinges groups episodes by calendar day and show. A group with at least
// threshold distinct episode titles is a session; it counts episodes rather
// than rows, so resuming one episode adds nothing. Movies never count. The
// biggest session is the largest group; the earlier day, then the show seen
// first, wins ties.
func DetectBinges(viewings []history.Viewing, threshold int, loc *time.Location) Binges {
	var order []bingeKey
	episodes := make(map[bingeKey]map[string]bool)
	for _, v := range viewings {
		if !v.IsEpisode {
			continue
		}
		k := bingeKey{date: calendarDay(v.Start, loc), show: v.Show}
		if episodes[k] == nil {
			episodes[k] = make(map[string]bool)
			order = append(order, k)
		}
		episodes[k][v.Title] = true
	}

	var b Binges
	for _, k := range order {
		n := len(episodes[k])
		if n < threshold {
			continue
		}
		b.Sessions++
		if n > b.Biggest || (n == b.Biggest && k.date.Before(b.Date)) {
			b.Biggest = n
			b.Show = k.show
			b.Date = k.date
		}
	}
	return b
}
