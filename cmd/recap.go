package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/netflix-recap/internal/analysis"
	"github.com/ademuri/netflix-recap/internal/history"
	"github.com/ademuri/netflix-recap/internal/report"
	"github.com/ademuri/netflix-recap/internal/store"
)

const downloadInstructions = `Please download your Netflix viewing history and place it in the data folder.

To get your data:
1. Go to Netflix.com > Profile > Account
2. Click 'Download your personal information'
3. Extract ViewingActivity.csv to the data folder
`

type RecapConfig struct {
	DataDir        string
	File           string
	Output         string
	Format         report.Format
	Year           int
	Location       *time.Location
	Profile        string
	BingeThreshold int
	// Passed through as is: 0 keeps views of any length and every show.
	MinDuration    time.Duration
	TopN           int
	DbPath         string
	FromDB         bool
	Now            time.Time
}

var recapCmd = &cobra.Command{
	Use:   "recap [data_dir]",
	Short: "Writes the year in review (same as running with no command)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRecapCommand,
}

func init() {
	rootCmd.AddCommand(recapCmd)
}

func runRecapCommand(cmd *cobra.Command, args []string) {
	config, err := recapConfigFromFlags(args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if _, err := runRecap(config, os.Stdout); err != nil {
		fmt.Println(err)
		if errors.Is(err, history.ErrNotFound) {
			fmt.Print("\n" + downloadInstructions)
		}
		os.Exit(1)
	}
}

func recapConfigFromFlags(args []string) (RecapConfig, error) {
	config := RecapConfig{
		DataDir:        defaultDataDir,
		File:           viper.GetString("file"),
		Output:         viper.GetString("output"),
		Year:           viper.GetInt("year"),
		Profile:        viper.GetString("profile"),
		BingeThreshold: viper.GetInt("binge_threshold"),
		MinDuration:    viper.GetDuration("min_duration"),
		TopN:           viper.GetInt("top"),
		DbPath:         viper.GetString("database"),
		FromDB:         viper.GetBool("from_db"),
		Now:            time.Now(),
	}
	if len(args) > 0 {
		config.DataDir = args[0]
	}

	var err error
	config.Format, err = report.ParseFormat(viper.GetString("format"))
	if err != nil {
		return config, err
	}
	config.Location, err = loadLocation(viper.GetString("timezone"))
	if err != nil {
		return config, err
	}
	return config, nil
}

// runRecap loads the history, builds the report for the configured year,
// writes it and prints the summary to out. Nothing is written on error.
func runRecap(config RecapConfig, out io.Writer) (*analysis.Report, error) {
	fmt.Fprintln(out, "Processing Netflix data...")

	viewings, hasDuration, err := loadViewings(config, out)
	if err != nil {
		return nil, err
	}

	year := config.Year
	if year == 0 {
		now := config.Now
		if now.IsZero() {
			now = time.Now()
		}
		year = analysis.DefaultYear(viewings, now.In(config.location()))
	}
	fmt.Fprintf(out, "Calculating stats for %d...\n", year)

	analysisConfig := analysis.DefaultConfig(year)
	analysisConfig.Location = config.location()
	analysisConfig.HasDuration = hasDuration
	if config.BingeThreshold != 0 {
		analysisConfig.BingeThreshold = config.BingeThreshold
	}
	analysisConfig.MinDuration = config.MinDuration
	analysisConfig.TopN = config.TopN

	stats, err := analysis.Generate(viewings, analysisConfig)
	if err != nil {
		return nil, fmt.Errorf("calculating stats: %w", err)
	}

	output := config.outputPath()
	if err := report.Write(output, stats, config.Format); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Stats saved to %s\n", output)

	if err := report.PrintSummary(out, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// loadViewings reads from the database when FromDB is set, otherwise from the
// CSV export.
func loadViewings(config RecapConfig, out io.Writer) ([]history.Viewing, bool, error) {
	if config.FromDB {
		db, err := store.New(config.DbPath)
		if err != nil {
			return nil, false, err
		}
		defer db.Close()

		viewings, err := db.Viewings(config.Profile)
		if err != nil {
			return nil, false, fmt.Errorf("reading %s: %w", config.DbPath, err)
		}
		fmt.Fprintf(out, "Loaded %d viewing records from %s\n", len(viewings), config.DbPath)
		return viewings, anyDuration(viewings), nil
	}

	export, err := loadExport(config.DataDir, config.File, config.Profile)
	if err != nil {
		return nil, false, err
	}
	fmt.Fprintf(out, "Loaded %d viewing records from %s\n", len(export.Records), export.Path)
	return history.Normalize(export.Records), export.HasDuration, nil
}

// loadExport reads file, or the export found in dataDir when file is empty.
func loadExport(dataDir, file, profile string) (*history.Export, error) {
	path := file
	if path == "" {
		var err error
		path, err = history.Locate(dataDir)
		if err != nil {
			return nil, err
		}
	}
	log.Info().Str("path", path).Msg("Reading viewing history")

	// Netflix writes start times in UTC.
	export, err := history.Load(path, history.Options{Profile: profile, Location: time.UTC})
	if err != nil {
		return nil, err
	}
	if export.Dropped > 0 {
		log.Warn().Int("rows", export.Dropped).Str("path", path).Msg("Dropped rows with unparseable start times")
	}
	return export, nil
}

// anyDuration reports whether stored viewings carry durations, which only
// exports with a Duration column do.
func anyDuration(viewings []history.Viewing) bool {
	for _, v := range viewings {
		if v.Duration > 0 {
			return true
		}
	}
	return false
}

func (c RecapConfig) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c RecapConfig) outputPath() string {
	if c.Output != "" {
		return c.Output
	}
	name := "recap_stats.json"
	if c.Format == report.YAML {
		name = "recap_stats.yaml"
	}
	dir := c.DataDir
	if dir == "" {
		dir = defaultDataDir
	}
	return filepath.Join(dir, name)
}
