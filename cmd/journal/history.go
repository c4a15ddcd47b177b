package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"homework_bot/internal/model"
	"homework_bot/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent notifications or cycles",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 10, "number of records to print")
	historyCmd.Flags().Bool("cycles", false, "print polling cycles instead of notifications")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	cycles, _ := cmd.Flags().GetBool("cycles")
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	store, err := storage.OpenReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if cycles {
		list, err := store.ListCycles(cmd.Context(), limit)
		if err != nil {
			return err
		}
		writeCycles(out, list)
		return nil
	}

	list, err := store.ListNotifications(cmd.Context(), limit)
	if err != nil {
		return err
	}
	writeNotifications(out, list)
	return nil
}

func writeNotifications(w io.Writer, list []model.Notification) {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "No notifications yet.")
		return
	}
	for _, n := range list {
		state := "delivered"
		if !n.Delivered {
			state = "failed: " + n.Error
		}
		_, _ = fmt.Fprintf(w, "%s  [%s]  %s\n", n.CreatedAt.Format("2006-01-02 15:04 UTC"), state, n.Text)
	}
}

func writeCycles(w io.Writer, list []model.Cycle) {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "No cycles yet.")
		return
	}
	for _, c := range list {
		next := "-"
		if c.CurrentDate != nil {
			next = fmt.Sprint(*c.CurrentDate)
		}
		_, _ = fmt.Fprintf(w, "%s  %s  from=%d current=%s  %s", c.StartedAt.Format("2006-01-02 15:04 UTC"), c.ID, c.FromDate, next, c.Outcome)
		if c.ErrorKind != "" {
			_, _ = fmt.Fprintf(w, " (%s: %s)", c.ErrorKind, c.Error)
		}
		_, _ = fmt.Fprintln(w)
	}
}
