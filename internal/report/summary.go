package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/netflix-recap/internal/analysis"
)

var heading = color.New(color.FgRed, color.Bold).SprintFunc()

// PrintSummary writes the quick summary, then the top shows and monthly
// counts as tables.
func PrintSummary(w io.Writer, r *analysis.Report) error {
	fmt.Fprintf(w, "\n%s\n", heading(fmt.Sprintf("Your %d on Netflix", r.Year)))
	fmt.Fprintf(w, "  Total Watch Time: %.1f hours (%.1f days)\n", r.EstimatedHours, r.EstimatedDays)
	fmt.Fprintf(w, "  Titles Watched: %d\n", r.TotalTitlesWatched)
	fmt.Fprintf(w, "  Unique Shows: %d\n", r.UniqueShows)
	fmt.Fprintf(w, "  #1 Show: %s (%d plays)\n", r.NumberOneShow, r.NumberOneCount)
	fmt.Fprintf(w, "  Longest Streak: %d days\n", r.LongestStreak)
	if r.BingeSessions > 0 {
		fmt.Fprintf(w, "  Biggest Binge: %d episodes of %s on %s\n", r.BiggestBinge, r.BiggestBingeShow, r.BiggestBingeDate)
	}
	fmt.Fprintf(w, "  Personality: %s\n", r.Personality.Type)

	if len(r.TopShows) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Top shows"))
		rows := [][]string{{"#", "Show", "Plays", "Minutes"}}
		for i, s := range r.TopShows {
			rows = append(rows, []string{strconv.Itoa(i + 1), s.Title, strconv.Itoa(s.Count), strconv.Itoa(s.Minutes)})
		}
		if err := renderTable(w, rows); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s\n", heading("By month"))
	rows := [][]string{{"Month", "Titles"}}
	for _, c := range r.MonthlyBreakdown {
		rows = append(rows, []string{c.Key, strconv.Itoa(c.Count)})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	if len(r.FunFacts) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Fun facts"))
		for _, f := range r.FunFacts {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	return nil
}

// renderTable treats the first row as the header.
func renderTable(w io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(rows[0])
	for _, row := range rows[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
