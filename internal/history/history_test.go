package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netflixExport = `Profile Name,Start Time,Duration,Attributes,Title,Supplemental Video Type,Device Type,Bookmark,Latest Bookmark,Country
Alex,2025-03-01 21:15:04,00:48:12,,Stranger Things: Season 4: Chapter One (Episode 1),,Samsung Smart TV,00:48:12,00:48:12,US (United States)
Alex,2025-03-01 20:59:10,00:00:31,Autoplayed: user action: None; ,Extraction 2_hook_primary_16x9,HOOK,Samsung Smart TV,00:00:31,Not latest view,US (United States)
Sam,not-a-date,00:20:00,,Inception,,iPhone 14,00:20:00,00:20:00,US (United States)
Sam,2025-03-02 01:00:00,bogus,,Inception,,iPhone 14,00:20:00,00:20:00,US (United States)
`

func TestParseNetflixExport(t *testing.T) {
	export, err := Parse(strings.NewReader(netflixExport), Options{})
	require.NoError(t, err)

	assert.True(t, export.HasDuration)
	assert.Equal(t, 1, export.Dropped)
	require.Len(t, export.Records, 3)

	first := export.Records[0]
	assert.Equal(t, "Alex", first.Profile)
	assert.Equal(t, "Stranger Things: Season 4: Chapter One (Episode 1)", first.Title)
	assert.Equal(t, time.Date(2025, 3, 1, 21, 15, 4, 0, time.UTC), first.Start)
	assert.Equal(t, 48*time.Minute+12*time.Second, first.Duration)
	assert.Equal(t, "Samsung Smart TV", first.Device)
	assert.False(t, first.IsSupplemental())

	assert.True(t, export.Records[1].IsSupplemental())
	assert.Equal(t, time.Duration(0), export.Records[2].Duration, "malformed duration coerces to zero")
}

func TestParseProfileFilter(t *testing.T) {
	export, err := Parse(strings.NewReader(netflixExport), Options{Profile: "sam"})
	require.NoError(t, err)
	require.Len(t, export.Records, 1)
	assert.Equal(t, "Inception", export.Records[0].Title)
	assert.Equal(t, 1, export.Dropped)
}

func TestParseDateVariant(t *testing.T) {
	const in = "\ufeffTitle, Date \n\"The Crown: Season 2: Misadventure\",12/24/17\nRoma,1/5/19\n"
	export, err := Parse(strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.False(t, export.HasDuration)
	require.Len(t, export.Records, 2)
	assert.Equal(t, time.Date(2017, 12, 24, 0, 0, 0, 0, time.UTC), export.Records[0].Start)
	assert.Equal(t, time.Duration(0), export.Records[0].Duration)
	assert.Equal(t, "Roma", export.Records[1].Title)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("Name,Start Time\nx,2025-01-01\n"), Options{})
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = Parse(strings.NewReader("Title,When\nx,2025-01-01\n"), Options{})
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = Parse(strings.NewReader(""), Options{})
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"01:02:03": time.Hour + 2*time.Minute + 3*time.Second,
		"00:00:59": 59 * time.Second,
		"12:30":    12*time.Minute + 30*time.Second,
		"":         0,
		"45":       0,
		"1:2:3:4":  0,
		"aa:bb:cc": 0,
		"-1:00:00": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDuration(in), "ParseDuration(%q)", in)
	}
}

func TestNormalizeKeepsOrder(t *testing.T) {
	viewings := Normalize([]Record{
		{Title: "Inception"},
		{Title: "Dark: Season 1: Secrets (Episode 1)"},
	})
	require.Len(t, viewings, 2)
	assert.Equal(t, "Inception", viewings[0].Show)
	assert.False(t, viewings[0].IsEpisode)
	assert.Equal(t, "Dark", viewings[1].Show)
	assert.Equal(t, 1, viewings[1].Season)
	assert.Equal(t, 1, viewings[1].Episode)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(netflixExport), 0o644))
}

func TestLocate(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "ViewingActivity.csv")
		writeFile(t, want)

		got, err := Locate(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("account subfolder", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))
		want := filepath.Join(dir, "1234567890", "CONTENT_INTERACTION", "ViewingActivity.csv")
		writeFile(t, want)

		got, err := Locate(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("any csv", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "NetflixViewingHistory.csv")
		writeFile(t, want)

		got, err := Locate(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Locate(t.TempDir())
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Locate(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ViewingActivity.csv")
	writeFile(t, path)

	export, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, export.Path)
	assert.Len(t, export.Records, 3)
}
