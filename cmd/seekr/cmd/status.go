package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/indexer"
	"github.com/seekr/seekr/internal/output"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the current index state for this workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	root, err := resolveRoot(nil)
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

	status := ix.StatusReport()
	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "workspace: %s", status.Workspace)
	out.Statusf("", "files: %d  chunks: %d  vectors: %d", status.FilesTracked, status.ChunksStored, status.VectorsStored)
	out.Statusf("", "lexical: %d bytes  semantic: %d bytes", status.LexicalSizeBytes, status.SemanticSizeBytes)
	if !status.LastIndexTime.IsZero() {
		out.Statusf("", "last indexed: %s", status.LastIndexTime.Format("2006-01-02T15:04:05Z07:00"))
	} else {
		out.Status("", "last indexed: never")
	}
	return nil
}
