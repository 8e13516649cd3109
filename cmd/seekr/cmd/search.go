package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seekr/seekr/internal/config"
	"github.com/seekr/seekr/internal/output"
	"github.com/seekr/seekr/internal/query"
)

func newSearchCmd() *cobra.Command {
	var (
		limit      int
		context    int
		semantic   bool
		hybrid     bool
		alpha      float64
		jsonOutput bool
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := query.ModeHybrid
			if semantic {
				mode = query.ModeSemantic
			}
			opts := query.Options{
				Query:        strings.Join(args, " "),
				Mode:         mode,
				K:            limit,
				Alpha:        alpha,
				ContextLines: context,
				Explain:      explain,
			}
			return runSearch(cmd, opts, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	cmd.Flags().IntVar(&context, "context", 3, "lines of context around each hit")
	cmd.Flags().BoolVar(&semantic, "semantic", false, "semantic-only search")
	cmd.Flags().BoolVar(&hybrid, "hybrid", false, "hybrid search (default)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.5, "lexical/semantic weight for hybrid mode (0=semantic only, 1=lexical only)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit results as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "include fusion details in JSON output")
	cmd.MarkFlagsMutuallyExclusive("semantic", "hybrid")

	return cmd
}

func runSearch(cmd *cobra.Command, opts query.Options, jsonOutput bool) error {
	root, err := resolveRoot(nil)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	engine, closeFn, err := query.Open(root, cfg, newEmbedder())
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	results, explainData, err := engine.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeSearchJSON(cmd, results, explainData)
	}
	return writeSearchText(cmd, opts.Query, results)
}

type jsonResult struct {
	Path      string  `json:"path"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Score     float64 `json:"score"`
	Mode      string  `json:"mode"`
	Snippet   string  `json:"snippet"`
}

type jsonSearchOutput struct {
	Results []jsonResult   `json:"results"`
	Explain *query.Explain `json:"explain,omitempty"`
}

func writeSearchJSON(cmd *cobra.Command, results []query.Result, explainData *query.Explain) error {
	out := jsonSearchOutput{Results: make([]jsonResult, 0, len(results)), Explain: explainData}
	for _, r := range results {
		out.Results = append(out.Results, jsonResult{
			Path:      r.Path,
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Score:     r.Score,
			Mode:      string(r.Mode),
			Snippet:   r.Snippet,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSearchText(cmd *cobra.Command, q string, results []query.Result) error {
	out := output.New(cmd.OutOrStdout())
	if len(results) == 0 {
		out.Statusf("", "no results for %q", q)
		return nil
	}
	for i, r := range results {
		out.Statusf("", "%d. %s:%d-%d (score %.3f)", i+1, r.Path, r.StartLine, r.EndLine, r.Score)
		for _, line := range strings.Split(r.Snippet, "\n") {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", line)
		}
	}
	return nil
}
