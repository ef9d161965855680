package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
)

var (
	// Global flags
	verbose bool

	// openDB is replaced in tests. The returned func releases the connection.
	openDB = func() (*gorm.DB, func(), error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		logging.Init(logging.Config{Level: logLevel(cfg.LogLevel), Format: cfg.LogFormat})
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
			release()
			return nil, nil, err
		}
		return db, release, nil
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "loaddata",
	Short: "Load the Foodgram reference catalogs",
	Long: `Load ingredients and tags from JSON fixtures into an empty database.

A catalog that already holds rows is left untouched.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func logLevel(configured string) string {
	if verbose {
		return "debug"
	}
	return configured
}
