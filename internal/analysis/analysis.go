package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ademuri/netflix-recap/internal/history"
)

// ErrNoData is returned when no viewing survives the filters for the year.
var ErrNoData = errors.New("no viewing activity")

const (
	DefaultMinDuration     = time.Minute
	DefaultTopN            = 10
	DefaultMinutesPerTitle = 45
	preferredYear          = 2025
	unknownDevice          = "Unknown"
)

type Config struct {
	// Calendar year to summarize. Required.
	Year int

	// Zone used for dates, weekdays and hours. Defaults to UTC.
	Location *time.Location

	// Views shorter than this are previews and are skipped. Only applied
	// when HasDuration is set.
	MinDuration time.Duration

	BingeThreshold int

	// Number of shows in TopShows.
	TopN int

	// False for exports without durations; watch time is then estimated at
	// MinutesPerTitle per title.
	HasDuration     bool
	MinutesPerTitle float64

	// Personality rules, DefaultRules when nil.
	Rules []Rule
}

func DefaultConfig(year int) Config {
	return Config{
		Year:            year,
		Location:        time.UTC,
		MinDuration:     DefaultMinDuration,
		BingeThreshold:  DefaultBingeThreshold,
		TopN:            DefaultTopN,
		HasDuration:     true,
		MinutesPerTitle: DefaultMinutesPerTitle,
	}
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Filter keeps main-content viewings from the configured year that are long
// enough to count, in input order.
func Filter(viewings []history.Viewing, cfg Config) []history.Viewing {
	loc := cfg.location()
	var kept []history.Viewing
	for _, v := range viewings {
		if v.Start.In(loc).Year() != cfg.Year {
			continue
		}
		if v.IsSupplemental() {
			continue
		}
		if cfg.HasDuration && (v.Duration <= 0 || v.Duration < cfg.MinDuration) {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// DefaultYear prefers 2025 when the history has it, otherwise the latest year
// not after now.
func DefaultYear(viewings []history.Viewing, now time.Time) int {
	best := 0
	for _, v := range viewings {
		y := v.Start.In(now.Location()).Year()
		if y == preferredYear {
			return preferredYear
		}
		if y <= now.Year() && y > best {
			best = y
		}
	}
	if best == 0 {
		return now.Year()
	}
	return best
}

// Generate builds the year-in-review for cfg.Year.
func Generate(viewings []history.Viewing, cfg Config) (*Report, error) {
	if cfg.Year <= 0 {
		return nil, fmt.Errorf("invalid year %d", cfg.Year)
	}
	if cfg.BingeThreshold < 1 {
		return nil, fmt.Errorf("invalid binge threshold %d", cfg.BingeThreshold)
	}
	loc := cfg.location()

	kept := Filter(viewings, cfg)
	if len(kept) == 0 {
		return nil, fmt.Errorf("%d: %w", cfg.Year, ErrNoData)
	}

	report := &Report{
		Year:               cfg.Year,
		TotalTitlesWatched: len(kept),
		MonthlyBreakdown:   NewBreakdown(Months),
		DayOfWeek:          NewBreakdown(Weekdays),
		TimeCategories:     NewBreakdown(TimeCategories),
		HourlyBreakdown:    NewBreakdown(Hours),
	}

	var totalSeconds float64
	var shows []string
	showCount := make(map[string]int)
	showSeconds := make(map[string]float64)
	var devices []string
	deviceCount := make(map[string]int)

	for _, v := range kept {
		seconds := v.Duration.Seconds()
		if !cfg.HasDuration {
			seconds = cfg.MinutesPerTitle * 60
		}
		totalSeconds += seconds

		if _, ok := showCount[v.Show]; !ok {
			shows = append(shows, v.Show)
		}
		showCount[v.Show]++
		showSeconds[v.Show] += seconds

		if v.IsEpisode {
			report.EpisodesWatched++
		} else {
			report.MoviesWatched++
		}

		if v.Device != "" {
			if _, ok := deviceCount[v.Device]; !ok {
				devices = append(devices, v.Device)
			}
			deviceCount[v.Device]++
		}

		local := v.Start.In(loc)
		report.MonthlyBreakdown.Add(local.Month().String())
		report.DayOfWeek.Add(local.Weekday().String())
		report.TimeCategories.Add(TimeCategory(local.Hour()))
		report.HourlyBreakdown.Add(Hours[local.Hour()])
	}

	hours := totalSeconds / 3600
	report.EstimatedHours = round1(hours)
	report.EstimatedDays = round1(hours / 24)
	report.UniqueShows = len(shows)

	sort.SliceStable(shows, func(i, j int) bool { return showCount[shows[i]] > showCount[shows[j]] })
	topN := cfg.TopN
	if topN <= 0 || topN > len(shows) {
		topN = len(shows)
	}
	for _, s := range shows[:topN] {
		report.TopShows = append(report.TopShows, ShowStat{
			Title:   s,
			Count:   showCount[s],
			Minutes: int(math.Round(showSeconds[s] / 60)),
		})
	}
	if len(report.TopShows) > 0 {
		first := report.TopShows[0]
		report.NumberOneShow = first.Title
		report.NumberOneCount = first.Count
		report.NumberOneMinutes = first.Minutes
	}

	peakMonth := report.MonthlyBreakdown.Peak()
	report.PeakMonth, report.PeakMonthCount = peakMonth.Key, peakMonth.Count
	favoriteDay := report.DayOfWeek.Peak()
	report.FavoriteDay, report.FavoriteDayCount = favoriteDay.Key, favoriteDay.Count
	report.PeakTime = report.TimeCategories.Peak().Key

	dates := ActiveDates(kept, loc)
	report.ActiveDays = len(dates)
	report.LongestStreak = LongestStreak(dates)
	report.FirstWatchDate = dates[0].Format(dateFormat)
	report.LastWatchDate = dates[len(dates)-1].Format(dateFormat)

	binges := DetectBinges(kept, cfg.BingeThreshold, loc)
	report.BingeSessions = binges.Sessions
	report.BiggestBinge = binges.Biggest
	report.BiggestBingeShow = binges.Show
	if binges.Sessions > 0 {
		report.BiggestBingeDate = binges.Date.Format(dateFormat)
	}

	report.TopDevice = topDevice(devices, deviceCount)

	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules
	}
	report.Personality = Classify(MetricsOf(report), rules)
	report.FunFacts = FunFacts(report)
	report.Highlights = Highlights(report)

	return report, nil
}

// topDevice picks the most used device, first seen on ties, and folds the
// long model names Netflix records into a few families.
func topDevice(devices []string, counts map[string]int) string {
	top := ""
	for _, d := range devices {
		if top == "" || counts[d] > counts[top] {
			top = d
		}
	}
	switch {
	case top == "":
		return unknownDevice
	case strings.Contains(top, "TV"):
		return "Smart TV"
	case strings.Contains(top, "iPhone"):
		return "iPhone"
	case strings.Contains(top, "Android"):
		return "Android"
	}
	return top
}
