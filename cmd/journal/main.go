// Package main is the operator CLI for the notification journal.
//
// Usage:
//
//	journal migrate up           # apply pending migrations
//	journal migrate status       # show migration status
//	journal history -n 20        # last 20 notifications
//	journal history --cycles     # last cycles with their outcome
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultDBPath = "./data/homework.db"

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and migrate the homework notifier journal",
	Long: `journal works with the SQLite journal written by the homework status
poller: it applies schema migrations and prints recent cycles and
notifications.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOrDefault("DATABASE_PATH", defaultDBPath), "path to sqlite database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
