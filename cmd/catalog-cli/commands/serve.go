package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"glowpicked-backend/lib/serviceutil"
	"glowpicked-backend/lib/telemetry"
	"glowpicked-backend/services/catalog"
	"glowpicked-backend/services/catalog/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 8080, "The port to serve the read API on.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Serves the enriched catalog over HTTP.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		enricher := catalog.NewEnricher(cfg.DatasetFile, cfg.Api.PartnerTag)
		handler := server.NewHandler(enricher, cfg.TrackedIDs)

		router := gin.Default()
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": cfg.DatasetFile})
		})
		handler.RegisterRoutes(router.Group("/api/v1"))

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", *servePort),
			Handler: router,
		}
		go func() {
			slog.Info("serving catalog read api", "addr", srv.Addr)
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				serviceutil.Fatal("http server failed", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
	},
}
