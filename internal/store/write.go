package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/netflix-recap/internal/history"
)

// ReplaceViewings swaps the stored history for viewings in one transaction and
// stamps every profile seen with the import time. Viewings keep their order.
// hasDuration is false for exports without a Duration column.
func (s *Store) ReplaceViewings(source string, viewings []history.Viewing, hasDuration bool, imported time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Viewing"); err != nil {
		return fmt.Errorf("clearing viewings: %w", err)
	}

	insert, err := tx.Prepare(`
	INSERT INTO Viewing
	(profile, title, show, is_episode, season, episode, start_time, duration_seconds, device, supplemental)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	profiles := make(map[string]bool)
	for _, v := range viewings {
		if !profiles[v.Profile] {
			profiles[v.Profile] = true
			if err := upsertProfile(tx, v.Profile, source, hasDuration, imported); err != nil {
				return err
			}
		}

		_, err := insert.Exec(v.Profile, v.Record.Title, v.Show, v.IsEpisode, v.Season, v.Episode,
			v.Start.Unix(), int64(v.Duration/time.Second), v.Device, v.Supplemental)
		if err != nil {
			return fmt.Errorf("inserting viewing %q: %w", v.Record.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func upsertProfile(tx *sql.Tx, name, source string, hasDuration bool, imported time.Time) error {
	_, err := tx.Exec(`
	INSERT INTO Profile (name, source, last_imported, has_duration) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET source = excluded.source, last_imported = excluded.last_imported,
	has_duration = excluded.has_duration
	`, name, source, imported, hasDuration)
	if err != nil {
		return fmt.Errorf("recording profile %q: %w", name, err)
	}
	return nil
}
