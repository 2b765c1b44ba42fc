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
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/netflix-recap/internal/store"
)

var topShowsCmd = &cobra.Command{
	Use:   "top-shows [from] [to (optional)]",
	Short: "Lists the most watched shows in the database",
	Long: `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.
With no dates, uses the most recent year in the database. Run import first.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		loc, err := loadLocation(viper.GetString("timezone"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		out, err := getTopShows(viper.GetString("database"), viper.GetString("profile"),
			viper.GetInt("top"), viper.GetDuration("min_duration"), args, loc)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(topShowsCmd)
}

func getTopShows(dbPath, profile string, limit int, minDuration time.Duration, args []string, loc *time.Location) (analysis Analysis, err error) {
	db, err := store.New(dbPath)
	if err != nil {
		return
	}
	defer db.Close()

	if len(args) == 0 {
		var years []int
		years, err = db.Years()
		if err != nil {
			return
		}
		if len(years) == 0 {
			err = errors.New("database is empty - run import first")
			return
		}
		args = []string{strconv.Itoa(years[0])}
	}

	start, end, err := parseDateRangeFromArgs(args, loc)
	if err != nil {
		return
	}

	counts, err := db.TopShows(profile, start, end, minDuration, 0)
	if err != nil {
		return
	}

	var numViews int64
	analysis.results = [][]string{{"Show", "Views", "Minutes"}}
	for i, c := range counts {
		numViews += c.Count
		if limit == 0 || i < limit {
			analysis.results = append(analysis.results, []string{
				c.Show, strconv.FormatInt(c.Count, 10), strconv.FormatInt(c.Minutes, 10),
			})
		}
	}

	const dateFormat = "2006-01-02"
	analysis.summary = fmt.Sprintf("Found %d shows and %d views from %s to %s",
		len(counts), numViews, start.Format(dateFormat), end.Format(dateFormat))
	return
}
