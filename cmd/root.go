/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ademuri/netflix-recap/internal/analysis"
)

const defaultDataDir = "data"

var cfgFile string

// rootCmd runs the recap when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "netflix-recap [data_dir]",
	Short: "Builds a year in review from a Netflix viewing history export",
	Long: `Reads ViewingActivity.csv from your Netflix data export and writes a year in
review (top shows, streaks, binges, a viewing personality) to recap_stats.json.

data_dir defaults to ./data. The export's account folder and
CONTENT_INTERACTION/ViewingActivity.csv are found automatically.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
	Run: runRecapCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.netflix-recap.yaml)")

	flags.String("log_level", "warn", "log level: debug, info, warn, error")
	flags.StringP("database", "d", "./netflix.db", "Path to the SQLite database used by import and top-shows")
	flags.StringP("profile", "p", "", "Only use viewings from this profile (case-insensitive)")
	flags.String("timezone", "UTC", "Time zone used for dates and hours, e.g. America/Los_Angeles or Local")

	flags.IntP("year", "y", 0, "Year to summarize (default is 2025 if present, else the most recent year)")
	flags.Int("binge_threshold", analysis.DefaultBingeThreshold, "Distinct episodes of one show in one day that make a binge")
	flags.Duration("min_duration", analysis.DefaultMinDuration, "Views shorter than this are skipped")
	flags.IntP("top", "n", analysis.DefaultTopN, "Number of top shows to report")
	flags.StringP("file", "f", "", "Viewing history CSV (overrides discovery in data_dir)")
	flags.StringP("output", "o", "", "Output file (default is <data_dir>/recap_stats.json)")
	flags.String("format", "json", "Output format: json or yaml")
	flags.Bool("from_db", false, "Read viewings from the database instead of the CSV export")

	for _, name := range []string{
		"log_level", "database", "profile", "timezone", "year", "binge_threshold",
		"min_duration", "top", "file", "output", "format", "from_db",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Secrets such as the SendGrid key usually live in .env.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".netflix-recap" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".netflix-recap")
	}

	viper.SetEnvPrefix("NETFLIX_RECAP")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log_level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// loadLocation accepts IANA names, "Local", and empty for UTC.
func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "UTC", "utc":
		return time.UTC, nil
	case "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
