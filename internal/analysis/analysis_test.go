package analysis

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/netflix-recap/internal/history"
	"github.com/ademuri/netflix-recap/internal/title"
)

func viewing(raw string, start time.Time, d time.Duration) history.Viewing {
	return history.Viewing{
		Record: history.Record{Title: raw, Start: start, Duration: d, Device: "Samsung Smart TV"},
		Info:   title.Parse(raw),
	}
}

func day(month time.Month, d, hour int) time.Time {
	return time.Date(2025, month, d, hour, 0, 0, 0, time.UTC)
}

func episode(n int) string {
	return "Stranger Things: Season 4: Chapter (Episode " + strconv.Itoa(n) + ")"
}

func TestGenerate(t *testing.T) {
	viewings := []history.Viewing{
		viewing(episode(1), day(time.March, 1, 20), 50*time.Minute),
		viewing(episode(2), day(time.March, 1, 21), 50*time.Minute),
		viewing(episode(3), day(time.March, 1, 22), 50*time.Minute),
		viewing(episode(4), day(time.March, 1, 23), 50*time.Minute),
		viewing("Inception", day(time.March, 2, 14), 2*time.Hour),
		viewing("Inception", day(time.March, 3, 9), 30*time.Second),
		viewing("The Crown: Season 1: Wolferton Splash (Episode 1)", day(time.April, 7, 8), time.Hour),
		viewing("Old Movie", time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC), time.Hour),
	}
	trailer := viewing("Extraction 2_hook_primary_16x9", day(time.March, 4, 12), time.Minute)
	trailer.Supplemental = "HOOK"
	viewings = append(viewings, trailer)

	report, err := Generate(viewings, DefaultConfig(2025))
	require.NoError(t, err)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 6, report.TotalTitlesWatched)
	assert.Equal(t, 3, report.UniqueShows)
	assert.Equal(t, 6.3, report.EstimatedHours)
	assert.Equal(t, 0.3, report.EstimatedDays)

	require.Len(t, report.TopShows, 3)
	assert.Equal(t, ShowStat{Title: "Stranger Things", Count: 4, Minutes: 200}, report.TopShows[0])
	assert.Equal(t, ShowStat{Title: "Inception", Count: 1, Minutes: 120}, report.TopShows[1])
	assert.Equal(t, "The Crown", report.TopShows[2].Title)
	assert.Equal(t, "Stranger Things", report.NumberOneShow)
	assert.Equal(t, 4, report.NumberOneCount)
	assert.Equal(t, 200, report.NumberOneMinutes)

	assert.Equal(t, "March", report.PeakMonth)
	assert.Equal(t, 5, report.PeakMonthCount)
	assert.Equal(t, "Saturday", report.FavoriteDay)
	assert.Equal(t, Evening, report.PeakTime, "evening and night tie; evening comes first")
	assert.Equal(t, 2, report.TimeCategories.Get(Night))
	assert.Equal(t, 1, report.HourlyBreakdown.Get("23"))

	assert.Equal(t, 3, report.ActiveDays)
	assert.Equal(t, 2, report.LongestStreak)
	assert.Equal(t, 1, report.BingeSessions)
	assert.Equal(t, 4, report.BiggestBinge)
	assert.Equal(t, "Stranger Things", report.BiggestBingeShow)
	assert.Equal(t, "2025-03-01", report.BiggestBingeDate)
	assert.Equal(t, "2025-03-01", report.FirstWatchDate)
	assert.Equal(t, "2025-04-07", report.LastWatchDate)

	assert.Equal(t, 1, report.MoviesWatched)
	assert.Equal(t, 5, report.EpisodesWatched)
	assert.Equal(t, "Smart TV", report.TopDevice)
	assert.Equal(t, "The Weekend Wanderer", report.Personality.Type)
	assert.Len(t, report.FunFacts, 2)
	assert.NotEmpty(t, report.Highlights)
}

func TestGenerateBreakdownsAreZeroFilled(t *testing.T) {
	report, err := Generate([]history.Viewing{
		viewing("Inception", day(time.July, 9, 15), 2*time.Hour),
	}, DefaultConfig(2025))
	require.NoError(t, err)

	assert.Equal(t, Months, report.MonthlyBreakdown.Keys())
	assert.Equal(t, Weekdays, report.DayOfWeek.Keys())
	assert.Equal(t, TimeCategories, report.TimeCategories.Keys())
	assert.Equal(t, Hours, report.HourlyBreakdown.Keys())
	assert.Equal(t, 1, report.MonthlyBreakdown.Total())
	assert.Equal(t, 0, report.MonthlyBreakdown.Get("January"))
}

func TestGenerateWithoutDurations(t *testing.T) {
	cfg := DefaultConfig(2025)
	cfg.HasDuration = false

	report, err := Generate([]history.Viewing{
		viewing("Inception", day(time.July, 9, 15), 0),
		viewing("Heat", day(time.July, 10, 15), 0),
	}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalTitlesWatched)
	assert.Equal(t, 1.5, report.EstimatedHours)
	assert.Equal(t, 45, report.TopShows[0].Minutes)
}

func TestGenerateNoData(t *testing.T) {
	_, err := Generate([]history.Viewing{
		viewing("Inception", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour),
	}, DefaultConfig(2025))
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Generate(nil, DefaultConfig(0))
	assert.Error(t, err)

	cfg := DefaultConfig(2025)
	cfg.BingeThreshold = 0
	_, err = Generate(nil, cfg)
	assert.Error(t, err)
}

func TestGenerateUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	cfg := DefaultConfig(2025)
	cfg.Location = tokyo

	// 2024-12-31 20:00 UTC is 2025-01-01 05:00 in Tokyo.
	report, err := Generate([]history.Viewing{
		viewing("Inception", time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC), time.Hour),
	}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MonthlyBreakdown.Get("January"))
	assert.Equal(t, 1, report.HourlyBreakdown.Get("5"))
	assert.Equal(t, "2025-01-01", report.FirstWatchDate)
}

func TestTopShowsStableOnTies(t *testing.T) {
	cfg := DefaultConfig(2025)
	cfg.TopN = 2
	report, err := Generate([]history.Viewing{
		viewing("Heat", day(time.May, 1, 12), time.Hour),
		viewing("Alien", day(time.May, 2, 12), time.Hour),
		viewing("Brazil", day(time.May, 3, 12), time.Hour),
		viewing("Brazil", day(time.May, 4, 12), time.Hour),
	}, cfg)
	require.NoError(t, err)

	require.Len(t, report.TopShows, 2)
	assert.Equal(t, "Brazil", report.TopShows[0].Title)
	assert.Equal(t, "Heat", report.TopShows[1].Title)
}

func TestLongestStreak(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, LongestStreak(dates))
	assert.Equal(t, 1, LongestStreak(dates[3:]))
	assert.Equal(t, 0, LongestStreak(nil))
}

func TestActiveDatesSortedAndDistinct(t *testing.T) {
	dates := ActiveDates([]history.Viewing{
		viewing("Heat", day(time.May, 3, 22), time.Hour),
		viewing("Heat", day(time.May, 1, 9), time.Hour),
		viewing("Alien", day(time.May, 3, 8), time.Hour),
	}, time.UTC)

	require.Len(t, dates, 2)
	assert.Equal(t, "2025-05-01", dates[0].Format(dateFormat))
	assert.Equal(t, "2025-05-03", dates[1].Format(dateFormat))
}

func TestDetectBinges(t *testing.T) {
	var viewings []history.Viewing
	for i := 1; i <= 4; i++ {
		viewings = append(viewings, viewing(episode(i), day(time.June, 6, 18+i), 45*time.Minute))
	}

	b := DetectBinges(viewings, DefaultBingeThreshold, time.UTC)
	assert.Equal(t, 1, b.Sessions)
	assert.Equal(t, 4, b.Biggest)
	assert.Equal(t, "Stranger Things", b.Show)
	assert.Equal(t, "2025-06-06", b.Date.Format(dateFormat))

	b = DetectBinges(viewings[:3], DefaultBingeThreshold, time.UTC)
	assert.Equal(t, Binges{}, b)
}

func TestDetectBingesCountsDistinctEpisodes(t *testing.T) {
	viewings := []history.Viewing{
		viewing(episode(1), day(time.June, 6, 19), 20*time.Minute),
		viewing(episode(1), day(time.June, 6, 20), 25*time.Minute),
		viewing(episode(2), day(time.June, 6, 21), 45*time.Minute),
		viewing(episode(3), day(time.June, 6, 22), 45*time.Minute),
	}
	assert.Equal(t, 0, DetectBinges(viewings, 4, time.UTC).Sessions)
	assert.Equal(t, 1, DetectBinges(viewings, 3, time.UTC).Sessions)
}

func TestDetectBingesIgnoresMovies(t *testing.T) {
	viewings := []history.Viewing{
		viewing("Heat", day(time.June, 6, 12), time.Hour),
		viewing("Alien", day(time.June, 6, 14), time.Hour),
		viewing("Brazil", day(time.June, 6, 16), time.Hour),
		viewing("Big", day(time.June, 6, 18), time.Hour),
	}
	assert.Equal(t, 0, DetectBinges(viewings, 1, time.UTC).Sessions)
}

func TestDetectBingesIgnoresSequelMarathon(t *testing.T) {
	var viewings []history.Viewing
	for n := 1; n <= 4; n++ {
		viewings = append(viewings, viewing("Kill Bill: Volume "+strconv.Itoa(n), day(time.June, 6, 10+2*n), time.Hour))
	}
	assert.Equal(t, 0, DetectBinges(viewings, DefaultBingeThreshold, time.UTC).Sessions)

	report, err := Generate(viewings, DefaultConfig(2025))
	require.NoError(t, err)
	assert.Equal(t, 4, report.MoviesWatched)
	assert.Equal(t, 0, report.EpisodesWatched)
	assert.Equal(t, 0, report.BingeSessions)
}

func TestDetectBingesTieGoesToEarlierDay(t *testing.T) {
	crown := func(n, d int) history.Viewing {
		return viewing("The Crown: Season 1: Part (Episode "+strconv.Itoa(n)+")", day(time.June, d, 10+n), time.Hour)
	}
	viewings := []history.Viewing{
		viewing(episode(1), day(time.June, 9, 10), time.Hour),
		viewing(episode(2), day(time.June, 9, 11), time.Hour),
		crown(1, 2),
		crown(2, 2),
	}
	b := DetectBinges(viewings, 2, time.UTC)
	assert.Equal(t, 2, b.Sessions)
	assert.Equal(t, "The Crown", b.Show)
	assert.Equal(t, "2025-06-02", b.Date.Format(dateFormat))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	m := Metrics{Hours: 600, BingeSessions: 60}
	assert.Equal(t, "The Streaming Champion", Classify(m, DefaultRules).Type)

	reversed := []Rule{DefaultRules[1], DefaultRules[0]}
	assert.Equal(t, "The Binge Master", Classify(m, reversed).Type)

	assert.Equal(t, CasualViewer, Classify(Metrics{}, DefaultRules))
}

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		metrics Metrics
		want    string
	}{
		{Metrics{NightRatio: 0.6}, "The After Hours Explorer"},
		{Metrics{LongestStreak: 21, BingeSessions: 41}, "The Marathon Runner"},
		{Metrics{UniqueShows: 101}, "The Plot Twist Addict"},
		{Metrics{MoviesWatched: 151, EpisodesWatched: 401}, "The Couch Critic"},
		{Metrics{WeekendRatio: 0.5}, "The Weekend Wanderer"},
		{Metrics{ActiveDays: 201}, "The Steady Streamer"},
		{Metrics{Hours: 500}, CasualViewer.Type},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.metrics, DefaultRules).Type)
		})
	}
}

func TestPeakTieGoesToFirstKey(t *testing.T) {
	b := NewBreakdown(Months)
	b.Add("March")
	b.Add("February")
	assert.Equal(t, Count{Key: "February", Count: 1}, b.Peak())

	assert.Equal(t, Count{Key: "January"}, NewBreakdown(Months).Peak())
}

func TestBreakdownIgnoresUnknownKeys(t *testing.T) {
	b := NewBreakdown(Weekdays)
	b.Add("Funday")
	assert.Equal(t, 0, b.Total())
	assert.Len(t, b, 7)
}

func TestTimeCategory(t *testing.T) {
	tests := map[int]string{
		0: Night, 5: Night, 6: Morning, 11: Morning, 12: Afternoon,
		17: Afternoon, 18: Evening, 21: Evening, 22: Night, 23: Night,
	}
	for hour, want := range tests {
		assert.Equal(t, want, TimeCategory(hour), "hour %d", hour)
	}
}

func TestBreakdownJSONKeepsOrder(t *testing.T) {
	b := NewBreakdown(TimeCategories)
	b.Add(Night)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Morning (6am-12pm)":0,"Afternoon (12pm-6pm)":0,"Evening (6pm-10pm)":0,"Night Owl (10pm-6am)":1}`,
		string(out))

	var back Breakdown
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, b, back)
}

func TestBreakdownYAMLKeepsOrder(t *testing.T) {
	b := NewBreakdown([]string{"Sunday", "Monday"})
	b.Add("Monday")

	out, err := yaml.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, "Sunday: 0\nMonday: 1\n", string(out))
}

func TestReportJSONIsDeterministic(t *testing.T) {
	viewings := []history.Viewing{
		viewing(episode(1), day(time.March, 1, 20), 50*time.Minute),
		viewing("Inception", day(time.March, 2, 14), 2*time.Hour),
		viewing("Heat", day(time.March, 2, 16), 2*time.Hour),
	}
	first, err := Generate(viewings, DefaultConfig(2025))
	require.NoError(t, err)
	second, err := Generate(viewings, DefaultConfig(2025))
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestFunFacts(t *testing.T) {
	r := &Report{EstimatedHours: 28, LongestStreak: 8, BingeSessions: 21, TotalTitlesWatched: 400}
	facts := FunFacts(r)

	require.Len(t, facts, 5)
	assert.Contains(t, facts[0], "Tokyo 2.0 times")
	assert.Contains(t, facts[1], "approximately 5 books")
	assert.Contains(t, facts[2], "8-day streak")
	assert.Contains(t, facts[3], "21 binge sessions")

	assert.Empty(t, FunFacts(&Report{}))
}

func TestHighlights(t *testing.T) {
	r := &Report{
		EstimatedHours: 12.6,
		UniqueShows:    3,
		ActiveDays:     9,
		TimeCategories: NewBreakdown(TimeCategories),
	}
	r.TimeCategories.Add(Night)
	r.TimeCategories.Add(Morning)

	cards := Highlights(r)
	require.Len(t, cards, 4)
	assert.Equal(t, Highlight{Icon: "clock", Stat: "13", Label: "hours of entertainment"}, cards[0])
	assert.Equal(t, "50%", cards[2].Stat)
	assert.Equal(t, "calendar", cards[3].Icon)
}

func TestDefaultYear(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	at := func(year int) history.Viewing {
		return viewing("Heat", time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	}

	assert.Equal(t, 2025, DefaultYear([]history.Viewing{at(2026), at(2025), at(2024)}, now))
	assert.Equal(t, 2026, DefaultYear([]history.Viewing{at(2023), at(2026), at(2027)}, now))
	assert.Equal(t, 2023, DefaultYear([]history.Viewing{at(2023), at(2022)}, now))
	assert.Equal(t, 2026, DefaultYear(nil, now))
}
