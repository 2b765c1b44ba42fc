package analysis

// Metrics are the numbers personality rules look at.
type Metrics struct {
	Hours           float64
	BingeSessions   int
	LongestStreak   int
	UniqueShows     int
	ActiveDays      int
	MoviesWatched   int
	EpisodesWatched int
	NightRatio      float64
	WeekendRatio    float64
}

// MetricsOf derives rule inputs from a report.
func MetricsOf(r *Report) Metrics {
	m := Metrics{
		Hours:           r.EstimatedHours,
		BingeSessions:   r.BingeSessions,
		LongestStreak:   r.LongestStreak,
		UniqueShows:     r.UniqueShows,
		ActiveDays:      r.ActiveDays,
		MoviesWatched:   r.MoviesWatched,
		EpisodesWatched: r.EpisodesWatched,
	}
	if total := r.TimeCategories.Total(); total > 0 {
		m.NightRatio = float64(r.TimeCategories.Get(Night)) / float64(total)
	}
	if total := r.DayOfWeek.Total(); total > 0 {
		weekend := r.DayOfWeek.Get("Saturday") + r.DayOfWeek.Get("Sunday")
		m.WeekendRatio = float64(weekend) / float64(total)
	}
	return m
}

type Rule struct {
	Type        string
	Description string
	Match       func(Metrics) bool
}

var CasualViewer = Personality{
	Type:        "The Casual Viewer",
	Description: "You watch on your own terms. No algorithm can define you.",
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{
		Type:        "The Streaming Champion",
		Description: "Netflix might as well be your second home. You have seen it ALL.",
		Match:       func(m Metrics) bool { return m.Hours > 500 },
	},
	{
		Type:        "The Binge Master",
		Description: "One more episode? Make that ten. Sleep is optional when the plot thickens.",
		Match:       func(m Metrics) bool { return m.BingeSessions > 50 },
	},
	{
		Type:        "The After Hours Explorer",
		Description: "The world sleeps, you stream. Some stories just hit different at 2am.",
		Match:       func(m Metrics) bool { return m.NightRatio > 0.5 },
	},
	{
		Type:        "The Marathon Runner",
		Description: "Consistency is your middle name. Rain or shine, you show up for your shows.",
		Match:       func(m Metrics) bool { return m.LongestStreak > 20 && m.BingeSessions > 40 },
	},
	{
		Type:        "The Plot Twist Addict",
		Description: "New show? Sign me up. Your watchlist is basically a buffet.",
		Match:       func(m Metrics) bool { return m.UniqueShows > 100 },
	},
	{
		Type:        "The Couch Critic",
		Description: "Movies, series, documentaries - you appreciate it all. A true connoisseur.",
		Match:       func(m Metrics) bool { return m.MoviesWatched > 150 && m.EpisodesWatched > 400 },
	},
	{
		Type:        "The Weekend Wanderer",
		Description: "Saturdays and Sundays are sacred. Your couch knows what's up.",
		Match:       func(m Metrics) bool { return m.WeekendRatio > 0.4 },
	},
	{
		Type:        "The Steady Streamer",
		Description: "You've made streaming a lifestyle. Netflix is basically a roommate at this point.",
		Match:       func(m Metrics) bool { return m.ActiveDays > 200 },
	},
}

// Classify returns the first rule matching m, or CasualViewer.
func Classify(m Metrics, rules []Rule) Personality {
	for _, r := range rules {
		if r.Match(m) {
			return Personality{Type: r.Type, Description: r.Description}
		}
	}
	return CasualViewer
}
