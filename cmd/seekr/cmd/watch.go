package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/indexer"
	"github.com/seekr/seekr/internal/output"
	"github.com/seekr/seekr/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a workspace and reindex on file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args)
		},
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	ix, err := indexer.Open(root, cfg, newEmbedder(), slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	// Indexing never having run is IndexMissing in spec.md §4.8's "implicit
	// init on watch" rule: build the initial index before watching for
	// changes.
	if _, err := ix.Index(cmd.Context(), false); err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "watching %s", root)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(root, ix, cfg.DebounceDuration(), slog.Default())
	err = w.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
