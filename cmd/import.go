package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/netflix-recap/internal/history"
	"github.com/ademuri/netflix-recap/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [data_dir]",
	Short: "Copies the viewing history export into the database",
	Long: `Reads the export the same way the recap does and replaces the database's
viewings with it. Use --from_db on later runs to skip the CSV, or top-shows to
query it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := defaultDataDir
		if len(args) > 0 {
			dataDir = args[0]
		}
		err := importHistory(viper.GetString("database"), dataDir, viper.GetString("file"), viper.GetString("profile"), time.Now(), os.Stdout)
		if err != nil {
			fmt.Println(err)
			if errors.Is(err, history.ErrNotFound) {
				fmt.Print("\n" + downloadInstructions)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importHistory(dbPath, dataDir, file, profile string, now time.Time, out io.Writer) error {
	export, err := loadExport(dataDir, file, profile)
	if err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	viewings := history.Normalize(export.Records)
	if err := db.ReplaceViewings(export.Path, viewings, export.HasDuration, now); err != nil {
		return fmt.Errorf("importing %s: %w", export.Path, err)
	}

	profiles, err := db.Profiles()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d viewings for %d profiles from %s\n", len(viewings), len(profiles), export.Path)
	if export.Dropped > 0 {
		fmt.Fprintf(out, "Skipped %d rows with unparseable start times\n", export.Dropped)
	}
	return nil
}
