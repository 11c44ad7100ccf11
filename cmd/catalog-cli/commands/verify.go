package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"glowpicked-backend/lib/paapi"
	"glowpicked-backend/lib/respcache"
	"glowpicked-backend/lib/scrapers/productpage"
	"glowpicked-backend/lib/serviceutil"
	"glowpicked-backend/services/catalog"
	"glowpicked-backend/services/catalog/db"

	"github.com/spf13/cobra"
)

var (
	verifySource  *string
	verifyDataset *string
	verifyReport  *string
	verifyHistory *string
)

func init() {
	verifySource = verifyCmd.Flags().String("source", "auto",
		"Where to fetch product data from: auto, api or scrape.")
	verifyDataset = verifyCmd.Flags().String("dataset", "",
		"Overrides the dataset file named in the config.")
	verifyReport = verifyCmd.Flags().String("report", "",
		"Overrides the report file named in the config.")
	verifyHistory = verifyCmd.Flags().String("history", "",
		"Overrides the history database named in the config.")
	rootCmd.AddCommand(verifyCmd)
}

func openHistory(cfg catalog.Config) (*sql.DB, *db.Queries) {
	if cfg.History.File == "" {
		return nil, nil
	}
	database, err := cfg.History.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open history database", err)
	}
	return database, db.New(database)
}

func buildFetcher(cfg catalog.Config, source string) catalog.Fetcher {
	client := paapi.NewClient(cfg.Api, respcache.New(respcache.Options{}))

	switch source {
	case "api":
		if !client.Configured() {
			serviceutil.Fatal("api source requested",
				fmt.Errorf("no api credentials configured"))
		}
		return catalog.NewAPIFetcher(client)
	case "scrape":
		return catalog.NewScrapeFetcher(productpage.New(cfg.Scraper))
	case "auto":
		if client.Configured() {
			slog.Info("using signed product api")
			return catalog.NewAPIFetcher(client)
		}
		slog.Info("no api credentials, falling back to page scraping")
		return catalog.NewScrapeFetcher(productpage.New(cfg.Scraper))
	default:
		serviceutil.Fatal("invalid source", fmt.Errorf("%q is not auto, api or scrape", source))
		return nil
	}
}

var verifyCmd = &cobra.Command{
	Use:   "verify [--source auto|api|scrape]",
	Short: "Fetches fresh data for every tracked product and reconciles the dataset.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *verifyDataset != "" {
			cfg.DatasetFile = *verifyDataset
		}
		if *verifyReport != "" {
			cfg.ReportFile = *verifyReport
		}
		if *verifyHistory != "" {
			cfg.History.File = *verifyHistory
		}

		database, history := openHistory(cfg)
		if database != nil {
			defer database.Close()
		}

		service := catalog.NewService(buildFetcher(cfg, *verifySource), history, cfg)

		t1 := time.Now()
		report, err := service.Run(cmd.Context(), cfg)
		if err != nil {
			serviceutil.Fatal("verification run failed", err)
		}
		slog.Info("verification time", "seconds", time.Since(t1).Seconds())

		for _, change := range report.Changes {
			fmt.Println(change.String())
		}
		for _, fetchErr := range report.Errors {
			fmt.Fprintf(os.Stderr, "ERROR: %s - %s\n", fetchErr.ID, fetchErr.Reason)
		}
		if len(report.Errors) > 0 {
			os.Exit(1)
		}
	},
}
