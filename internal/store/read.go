package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/netflix-recap/internal/history"
	"github.com/ademuri/netflix-recap/internal/title"
)

// ErrEmpty is returned by reads against a database nothing was imported into.
var ErrEmpty = errors.New("no viewings imported")

// GetLastImported returns the zero time when the profile was never imported.
func (s *Store) GetLastImported(profile string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_imported FROM Profile WHERE name = ?", profile)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last imported: %w", err)
	}
	return t.Time, nil
}

func (s *Store) Profiles() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM Profile ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Viewings returns stored viewings in import order. An empty profile matches
// every profile; otherwise the match ignores case.
func (s *Store) Viewings(profile string) ([]history.Viewing, error) {
	query := `
	SELECT profile, title, show, is_episode, season, episode, start_time, duration_seconds, device, supplemental
	FROM Viewing
	WHERE ? = '' OR LOWER(profile) = ?
	ORDER BY id
	`
	rows, err := s.db.Query(query, profile, strings.ToLower(profile))
	if err != nil {
		return nil, fmt.Errorf("querying viewings: %w", err)
	}
	defer rows.Close()

	var viewings []history.Viewing
	for rows.Next() {
		var (
			v       history.Viewing
			p, dev  sql.NullString
			start   int64
			seconds int64
		)
		err := rows.Scan(&p, &v.Record.Title, &v.Show, &v.IsEpisode, &v.Season, &v.Episode,
			&start, &seconds, &dev, &v.Supplemental)
		if err != nil {
			return nil, fmt.Errorf("scanning viewing: %w", err)
		}
		v.Profile = p.String
		v.Device = dev.String
		v.Start = time.Unix(start, 0).UTC()
		v.Duration = time.Duration(seconds) * time.Second
		if v.Show == "" {
			v.Info = title.Parse(v.Record.Title)
		}
		viewings = append(viewings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(viewings) == 0 {
		return nil, ErrEmpty
	}
	return viewings, nil
}

// Years lists the calendar years (UTC) with at least one viewing, newest first.
func (s *Store) Years() ([]int, error) {
	rows, err := s.db.Query(`
	SELECT DISTINCT strftime('%Y', start_time, 'unixepoch') AS year
	FROM Viewing
	ORDER BY year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		year, err := strconv.Atoi(y)
		if err != nil {
			return nil, fmt.Errorf("parsing year %q: %w", y, err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

func (s *Store) CountViewings(start, end time.Time) (int64, error) {
	row := s.db.QueryRow("SELECT COUNT(*) FROM Viewing WHERE start_time >= ? AND start_time < ?", start.Unix(), end.Unix())
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting viewings: %w", err)
	}
	return count, nil
}
