// Package cmd implements the seekr command-line surface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	seekrerrors "github.com/seekr/seekr/internal/errors"
	"github.com/seekr/seekr/internal/logging"
)

var (
	debugMode    bool
	loggingClose func()
)

// NewRootCmd builds the seekr root command and all its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seekr",
		Short: "Local, privacy-preserving code search",
		Long: `Seekr indexes a source tree and answers free-text queries in three
modes: lexical (BM25), semantic (nearest-neighbor over embeddings), and
hybrid (a weighted fusion of the two). Indexing and querying both run
entirely in-process; nothing leaves the machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "write debug logs to ~/.seekr/logs/seekr.log")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		cfg := logging.DefaultConfig()
		if debugMode {
			cfg.Level = "debug"
		}
		logger, cleanup, err := logging.Setup(cfg)
		if err != nil {
			return err
		}
		loggingClose = cleanup
		slog.SetDefault(logger)
		return nil
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if loggingClose != nil {
			loggingClose()
			loggingClose = nil
		}
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// ExitCode maps a command error to the process exit code pinned by spec.md
// §6: 0 success, 1 usage error, 2 index missing, 3 I/O error, 4 embedder
// error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	se, ok := err.(*seekrerrors.SeekrError)
	if !ok {
		return 1
	}
	switch se.Kind {
	case seekrerrors.KindIndexMissing, seekrerrors.KindIndexCorrupt:
		return 2
	case seekrerrors.KindEmbedderError:
		return 4
	case seekrerrors.KindIoError, seekrerrors.KindWorkspaceMissing, seekrerrors.KindCancelled, seekrerrors.KindParseError:
		return 3
	default:
		return 1
	}
}
