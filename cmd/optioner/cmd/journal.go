package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optioner/config"
	"github.com/rustyeddy/optioner/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded order outcomes",
	Long: `Journal lists the orders recorded by earlier runs. With --run it shows a
single run; otherwise it shows the given day (default today). Requires the
sqlite journal.`,
	RunE: runJournal,
}

var (
	journalConfigPath string
	journalRunID      string
	journalDay        string
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVarP(&journalConfigPath, "users", "u", "./users.yaml", "path to user config file")
	journalCmd.Flags().StringVarP(&journalRunID, "run", "r", "", "show a single run by id")
	journalCmd.Flags().StringVar(&journalDay, "day", "", "show a day's orders (YYYY-MM-DD, default today)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(journalConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Journal.Type != "sqlite" {
		return fmt.Errorf("journal queries need journal.type sqlite, have %q", cfg.Journal.Type)
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	var recs []journal.OrderRecord
	if journalRunID != "" {
		recs, err = j.ListOrdersByRun(journalRunID)
	} else {
		day := time.Now().UTC()
		if journalDay != "" {
			day, err = time.Parse("2006-01-02", journalDay)
			if err != nil {
				return fmt.Errorf("parse --day: %w", err)
			}
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		recs, err = j.ListOrdersBetween(start, start.Add(24*time.Hour))
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLACED\tRUN\tCLIENT\tBROKER\tSYMBOL\tSIDE\tQTY\tSTATUS\tMESSAGE")
	for _, rec := range recs {
		demo := ""
		if rec.Demo {
			demo = " (demo)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s%s\t%s\n",
			rec.PlacedAt.Local().Format("15:04:05"),
			rec.RunID, rec.Client, rec.Broker, rec.Symbol,
			rec.Side, rec.Qty, rec.Status, demo, rec.Message,
		)
	}
	return w.Flush()
}
