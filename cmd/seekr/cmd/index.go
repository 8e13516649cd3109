package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/indexer"
	"github.com/seekr/seekr/internal/output"
)

func newIndexCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Index a workspace, incrementally by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, args, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "reindex every file, ignoring fingerprints")
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, args []string, force bool) error {
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

	result, err := ix.Index(ctx, force)
	if err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "added %d, modified %d, unchanged %d, deleted %d (%d chunks indexed)",
		result.FilesAdded, result.FilesModified, result.FilesUnchanged, result.FilesDeleted, result.ChunksIndexed)
	for _, w := range result.Warnings {
		out.Warningf("%v", w)
	}
	return nil
}
