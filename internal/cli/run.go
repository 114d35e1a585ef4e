package cli

import (
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/modsync/modsync/internal/branding"
	"github.com/modsync/modsync/internal/config"
	"github.com/modsync/modsync/internal/logging"
	"github.com/modsync/modsync/internal/modmeta"
	"github.com/modsync/modsync/internal/modrinth"
	"github.com/modsync/modsync/internal/reconcile"
	"github.com/modsync/modsync/internal/replace"
	"github.com/modsync/modsync/internal/report"
	"github.com/spf13/cobra"
)

// runSync resolves configuration, runs the pipeline, and prints the report.
// Only configuration and directory-level failures are returned; per-mod
// failures are part of the report and leave the exit status at zero.
func runSync(cmd *cobra.Command, dryRun bool) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	cfg = cfg.WithDryRun(dryRun)

	if noColor {
		report.DisableColor(true)
	}

	runID := uuid.NewString()
	logger := logging.New(os.Stderr, branding.CLIName(), cfg.LogLevel, runID)

	client := newClient(cfg)

	replacer := replace.New(cfg.ModsDir, cfg.BackupDir, client)
	rec := reconcile.New(cfg, client, modmeta.Extractor{}, replacer,
		reconcile.WithLogger(logger),
		reconcile.WithRunID(runID),
	)

	rep, err := rec.Run()
	if err != nil {
		return err
	}

	report.Print(cmd.OutOrStdout(), rep)

	if cfg.MetricsFile != "" {
		if err := report.WriteMetrics(cfg.MetricsFile, rep); err != nil {
			logger.Warn().Err(err).Msg("metrics not written")
		}
	}
	return nil
}

func newClient(cfg config.Config) *modrinth.Client {
	opts := []modrinth.Option{
		modrinth.WithBaseURL(cfg.APIURL),
		modrinth.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		modrinth.WithUserAgent(branding.UserAgent(buildVersion)),
	}
	if cfg.Mirror != "" {
		opts = append(opts, modrinth.WithMirror(cfg.Mirror))
	}
	return modrinth.New(cfg.Target, opts...)
}
