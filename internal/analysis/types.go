package analysis

// Report is the year-in-review written to recap_stats.json.
type Report struct {
	Year               int     `json:"year" yaml:"year"`
	TotalTitlesWatched int     `json:"total_titles_watched" yaml:"total_titles_watched"`
	UniqueShows        int     `json:"unique_shows" yaml:"unique_shows"`
	EstimatedHours     float64 `json:"estimated_hours" yaml:"estimated_hours"`
	EstimatedDays      float64 `json:"estimated_days" yaml:"estimated_days"`

	NumberOneShow    string `json:"number_one_show" yaml:"number_one_show"`
	NumberOneCount   int    `json:"number_one_count" yaml:"number_one_count"`
	NumberOneMinutes int    `json:"number_one_minutes" yaml:"number_one_minutes"`

	PeakMonth        string `json:"peak_month" yaml:"peak_month"`
	PeakMonthCount   int    `json:"peak_month_count" yaml:"peak_month_count"`
	FavoriteDay      string `json:"favorite_day" yaml:"favorite_day"`
	FavoriteDayCount int    `json:"favorite_day_count" yaml:"favorite_day_count"`
	PeakTime         string `json:"peak_time" yaml:"peak_time"`

	LongestStreak    int    `json:"longest_streak" yaml:"longest_streak"`
	BingeSessions    int    `json:"binge_sessions" yaml:"binge_sessions"`
	BiggestBinge     int    `json:"biggest_binge" yaml:"biggest_binge"`
	BiggestBingeShow string `json:"biggest_binge_show" yaml:"biggest_binge_show"`
	BiggestBingeDate string `json:"biggest_binge_date" yaml:"biggest_binge_date"`
	ActiveDays       int    `json:"active_days" yaml:"active_days"`

	TopShows         []ShowStat `json:"top_shows" yaml:"top_shows"`
	MonthlyBreakdown Breakdown  `json:"monthly_breakdown" yaml:"monthly_breakdown"`
	DayOfWeek        Breakdown  `json:"day_of_week" yaml:"day_of_week"`
	TimeCategories   Breakdown  `json:"time_categories" yaml:"time_categories"`
	HourlyBreakdown  Breakdown  `json:"hourly_breakdown" yaml:"hourly_breakdown"`

	MoviesWatched   int    `json:"movies_watched" yaml:"movies_watched"`
	EpisodesWatched int    `json:"episodes_watched" yaml:"episodes_watched"`
	TopDevice       string `json:"top_device" yaml:"top_device"`
	FirstWatchDate  string `json:"first_watch_date" yaml:"first_watch_date"`
	LastWatchDate   string `json:"last_watch_date" yaml:"last_watch_date"`

	Personality Personality `json:"personality" yaml:"personality"`
	FunFacts    []string    `json:"fun_facts" yaml:"fun_facts"`
	Highlights  []Highlight `json:"highlights" yaml:"highlights"`
}

type ShowStat struct {
	Title   string `json:"title" yaml:"title"`
	Count   int    `json:"count" yaml:"count"`
	Minutes int    `json:"minutes" yaml:"minutes"`
}

type Personality struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Highlight is a headline number for the recap cards.
type Highlight struct {
	Icon  string `json:"icon" yaml:"icon"`
	Stat  string `json:"stat" yaml:"stat"`
	Label string `json:"label" yaml:"label"`
}
