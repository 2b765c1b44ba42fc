package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ademuri/netflix-recap/internal/analysis"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the recap as a Markdown document, used as the plain-text
// body of the email.
func Markdown(r *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Your %d on Netflix\n\n", r.Year)
	fmt.Fprintf(&b, "**%s**: %s\n\n", r.Personality.Type, r.Personality.Description)

	for _, h := range r.Highlights {
		fmt.Fprintf(&b, "- **%s** %s\n", h.Stat, h.Label)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "You watched %d titles across %d shows, about %.1f hours. ", r.TotalTitlesWatched, r.UniqueShows, r.EstimatedHours)
	fmt.Fprintf(&b, "Your busiest month was %s and your favorite day was %s.\n\n", r.PeakMonth, r.FavoriteDay)

	if len(r.TopShows) > 0 {
		b.WriteString("## Top shows\n\n")
		b.WriteString("| # | Show | Plays | Minutes |\n")
		b.WriteString("|---|------|------:|--------:|\n")
		for i, s := range r.TopShows {
			fmt.Fprintf(&b, "| %d | %s | %d | %d |\n", i+1, escapeCell(s.Title), s.Count, s.Minutes)
		}
		b.WriteString("\n")
	}

	if r.BingeSessions > 0 {
		b.WriteString("## Binges\n\n")
		fmt.Fprintf(&b, "%d binge sessions. The biggest was %d episodes of %s on %s.\n\n",
			r.BingeSessions, r.BiggestBinge, r.BiggestBingeShow, r.BiggestBingeDate)
	}

	if len(r.FunFacts) > 0 {
		b.WriteString("## Fun facts\n\n")
		for _, f := range r.FunFacts {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	return b.String()
}

// HTML converts Markdown(r) to HTML.
func HTML(r *analysis.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
