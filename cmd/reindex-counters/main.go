// Package main provides the reindex-counters tool, which rebuilds the
// like/dislike sets stored on videos from the reaction ledger.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"Vidtube/internal/config"
	"Vidtube/internal/core/counters"
	"Vidtube/internal/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the reindex-counters command
func newRootCmd() *cobra.Command {
	var (
		dryRun bool
		batch  int
	)

	cmd := &cobra.Command{
		Use:   "reindex-counters",
		Short: "Rebuild video like/dislike sets from the reaction ledger",
		Long: "Walks every video, compares its stored like and dislike sets with the " +
			"reaction ledger and rewrites the ones that drifted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := cfg.Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := db.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			report, err := counters.NewRepairer(store.Reactions(), store.Videos(), batch, logger).Run(ctx, dryRun)
			if report != nil {
				printReport(cmd.OutOrStdout(), report, dryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without rewriting anything")
	cmd.Flags().IntVar(&batch, "batch", 200, "number of videos read per page")
	cmd.SetContext(context.Background())

	return cmd
}

func printReport(w io.Writer, report *counters.Report, dryRun bool) {
	for _, d := range report.Drifted {
		fmt.Fprintf(w, "%s likes %d -> %d, dislikes %d -> %d\n",
			d.Video, d.StoredLikes, d.LedgerLikes, d.StoredDislikes, d.LedgerDislikes)
	}
	if dryRun {
		fmt.Fprintf(w, "scanned %d videos, %d drifted (dry run)\n", report.Scanned, len(report.Drifted))
		return
	}
	fmt.Fprintf(w, "scanned %d videos, %d drifted, %d fixed\n", report.Scanned, len(report.Drifted), report.Fixed)
}
