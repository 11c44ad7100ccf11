package commands

import (
	"fmt"
	"os"
	"time"

	"glowpicked-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var reportRun *string

func init() {
	reportRun = reportCmd.Flags().String("run", "",
		"The run id to report on. Defaults to the most recent run.")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [--run <run id>]",
	Short: "Prints the observations recorded during a verification run.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		database, history := openHistory(cfg)
		if history == nil {
			serviceutil.Fatal("no history database",
				fmt.Errorf("history.file is not set in the config"))
		}
		defer database.Close()

		runID := *reportRun
		if runID == "" {
			runID, err = history.GetLastRunID(cmd.Context())
			if err != nil {
				serviceutil.Fatal("failed to look up last run", err)
			}
			if runID == "" {
				fmt.Println("no verification runs recorded yet")
				return
			}
		}

		observations, err := history.GetRunObservations(cmd.Context(), runID)
		if err != nil {
			serviceutil.Fatal("failed to read observations", err)
		}

		fmt.Println("run:", runID)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ASIN", "Rating", "Reviews", "Source", "Time"})

		for _, o := range observations {
			t.AppendRow(table.Row{
				o.Asin,
				fmt.Sprintf("%.1f", o.Rating),
				o.Reviews,
				o.Source,
				time.Unix(o.Time, 0).Format(time.RFC3339),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
