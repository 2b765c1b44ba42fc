package store

import (
	"fmt"
	"time"
)

type ShowViewCount struct {
	Show    string
	Count   int64
	Minutes int64
}

// TopShows ranks shows by views in [start, end). Views shorter than
// minDuration and supplemental rows are skipped; ties keep the show that was
// imported first. Profiles imported without durations skip the minDuration
// check. A limit of 0 returns every show.
func (s *Store) TopShows(profile string, start, end time.Time, minDuration time.Duration, limit int) ([]ShowViewCount, error) {
	query := `
	SELECT show, COUNT(*), CAST(ROUND(SUM(duration_seconds) / 60.0) AS INTEGER)
	FROM Viewing
	WHERE (? = '' OR LOWER(profile) = LOWER(?))
	AND start_time >= ? AND start_time < ?
	AND (duration_seconds >= ? OR profile IN (SELECT name FROM Profile WHERE has_duration = 0))
	AND supplemental = ''
	GROUP BY show
	ORDER BY COUNT(*) DESC, MIN(id)
	`
	args := []interface{}{profile, profile, start.Unix(), end.Unix(), int64(minDuration / time.Second)}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top shows: %w", err)
	}
	defer rows.Close()

	var results []ShowViewCount
	for rows.Next() {
		var c ShowViewCount
		if err := rows.Scan(&c.Show, &c.Count, &c.Minutes); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
