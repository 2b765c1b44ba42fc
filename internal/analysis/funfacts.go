package analysis

import (
	"fmt"
	"math"
)

const (
	hoursPerTokyoFlight = 14
	hoursPerBook        = 6
	maxHighlights       = 4
)

// FunFacts turns the headline numbers into comparisons.
func FunFacts(r *Report) []string {
	facts := []string{}

	if r.EstimatedHours > 0 {
		flights := round1(r.EstimatedHours / hoursPerTokyoFlight)
		facts = append(facts, fmt.Sprintf("You could have flown to Tokyo %.1f times with your watch time.", flights))

		books := int(math.Round(r.EstimatedHours / hoursPerBook))
		facts = append(facts, fmt.Sprintf("In this time, you could have read approximately %d books. But who is counting?", books))
	}
	if r.LongestStreak > 7 {
		facts = append(facts, fmt.Sprintf("Your %d-day streak shows true dedication. Netflix should send you a trophy.", r.LongestStreak))
	}
	if r.BingeSessions > 20 {
		facts = append(facts, fmt.Sprintf("With %d binge sessions, you have mastered the art of 'just one more episode'.", r.BingeSessions))
	}
	if r.TotalTitlesWatched > 365 {
		facts = append(facts, "You watched more titles than there are days in a year. Impressive commitment.")
	}

	return facts
}

// Highlights picks at most four headline cards.
func Highlights(r *Report) []Highlight {
	cards := []Highlight{}

	if r.EstimatedHours > 0 {
		cards = append(cards, Highlight{Icon: "clock", Stat: fmt.Sprintf("%d", int(math.Round(r.EstimatedHours))), Label: "hours of entertainment"})
	}
	if r.UniqueShows > 0 {
		cards = append(cards, Highlight{Icon: "grid", Stat: fmt.Sprintf("%d", r.UniqueShows), Label: "different shows explored"})
	}
	if total := r.TimeCategories.Total(); total > 0 {
		nightPct := int(math.Round(float64(r.TimeCategories.Get(Night)) / float64(total) * 100))
		if nightPct > 20 {
			cards = append(cards, Highlight{Icon: "moon", Stat: fmt.Sprintf("%d%%", nightPct), Label: "late night sessions"})
		}
	}
	if r.ActiveDays > 0 {
		cards = append(cards, Highlight{Icon: "calendar", Stat: fmt.Sprintf("%d", r.ActiveDays), Label: "days you tuned in"})
	}

	if len(cards) > maxHighlights {
		cards = cards[:maxHighlights]
	}
	return cards
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
