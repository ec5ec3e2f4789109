package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"odoo-partners/internal/components/chrono"
	"odoo-partners/internal/components/telemetry"
	"odoo-partners/internal/export"
	"odoo-partners/internal/industry"
	"odoo-partners/internal/scrapers/odoo"
	"odoo-partners/pkg/restyutil"
	"odoo-partners/pkg/serviceutil"

	"github.com/spf13/cobra"
)

const previewRows = 15

var (
	pageStart    *int
	pageEnd      *int
	sleep        *float64
	profileSleep *float64
	outDir       *string
	dumpDir      *string
)

func init() {
	flags := scrapeCmd.Flags()
	pageStart = flags.Int("page-start", 1, "The first listing page to scrape.")
	pageEnd = flags.Int("page-end", 188, "The last listing page to scrape (inclusive).")
	sleep = flags.Float64("sleep", 1.0, "Seconds to wait between listing pages.")
	profileSleep = flags.Float64("profile-sleep", 0.0, "Seconds to wait between profile pages.")
	outDir = flags.String("out", ".", "The directory the exports are written to.")
	dumpDir = flags.String("dump-dir", "", "Write every http exchange to this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

// applyFlags overrides config values with the flags that were given explicitly.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("page-start") {
		cfg.PageStart = *pageStart
	}
	if flags.Changed("page-end") {
		cfg.PageEnd = *pageEnd
	}
	if flags.Changed("sleep") {
		cfg.SleepS = *sleep
	}
	if flags.Changed("profile-sleep") {
		cfg.ProfileSleepS = *profileSleep
	}
	if flags.Changed("out") {
		cfg.OutDir = *outDir
	}
	if flags.Changed("dump-dir") {
		cfg.DumpDir = *dumpDir
	}
}

func setupTelemetry(ctx context.Context, cfg telemetry.Config) (telemetry.API, func()) {
	var tel telemetry.API = telemetry.SlogAPI{}
	if !cfg.Enabled() {
		return tel, func() {}
	}

	otlp, err := telemetry.Setup(ctx, "odoo-partners", cfg)
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx, time.Second*15)

	return telemetry.NewMeteredAPI("odoo-partners", tel), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := otlp.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--page-start 1] [--page-end 188] [--sleep 1.0] [--profile-sleep 0.0] [--out .] [--dump-dir <dir>]",
	Short: "Scrapes the partner directory and writes the CSV and XLSX exports.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			serviceutil.Fatal("invalid configuration", err)
		}

		tel, shutdown := setupTelemetry(ctx, cfg.Telemetry)
		defer shutdown()

		opts := cfg.ScraperOptions()
		if cfg.DumpDir != "" {
			dump, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
			if err != nil {
				serviceutil.Fatal("failed to create dump dir", err)
			}
			opts.Client.Dump = dump
		}

		scraper, err := odoo.NewScraper(opts, chrono.NewStandardImpl(), tel)
		if err != nil {
			serviceutil.Fatal("failed to create scraper", err)
		}

		slog.Info("scraping", "from", cfg.PageStart, "to", cfg.PageEnd)
		t1 := time.Now()
		result, err := scraper.Run(ctx, cfg.Pages())
		if err != nil {
			shutdown()
			serviceutil.Fatal("scrape did not finish, nothing was written", err)
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		table := export.NewNormalizer(industry.Default).Normalize(result.Records)
		files, err := export.WriteAll(cfg.OutDir, table)
		if err != nil {
			shutdown()
			serviceutil.Fatal("failed to write exports", err)
		}

		renderPreview(table, previewColumns, previewRows)
		fmt.Printf(
			"rows: %d, RI columns: %d, pages: %d (%d failed), profile fetches: %d (%d without profile)\n",
			len(table.Rows),
			industry.Default.Len(),
			result.Pages,
			result.FailedPages,
			result.ProfileFetches,
			result.FailedProfiles,
		)
		fmt.Println("wrote", files.CSV)
		fmt.Println("wrote", files.XLSX)
	},
}
