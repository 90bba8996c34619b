package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"humspine/internal/analysiscache"
	"humspine/internal/humdrum"
	"humspine/internal/logging"
)

const maxErrorColumnWidth = 60

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze spine files and summarize the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := commandCtx(cmd)
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := logging.WithContext(runCtx, ctx.loggerValue())

			var store *analysiscache.Store
			if cfg.Cache.Enabled && !noCache {
				store, err = analysiscache.Open(cfg.Cache.Path)
				if err != nil {
					return fmt.Errorf("open analysis cache: %w", err)
				}
				defer store.Close()
			}

			summaries := make([]analysiscache.Summary, 0, len(args))
			invalid := 0
			for _, path := range args {
				f, err := ctx.loadFile(runCtx, path)
				if err != nil {
					return err
				}
				summary := analysiscache.Summarize(f.doc, path, f.hash)
				if !summary.Valid {
					invalid++
				}
				if store != nil {
					if err := store.Put(runCtx, summary); err != nil {
						fileLogger := logging.WithContext(logging.ContextWithPath(runCtx, path), logger)
						logging.WarnWithContext(fileLogger, "analysis summary not cached", "cache_put_failed",
							logging.Error(err),
							logging.String(logging.FieldErrorHint, "check the [cache] path or run 'humspine cache clear'"),
							logging.String(logging.FieldImpact, "this file will be re-analyzed from scratch next time"),
						)
					}
				}
				summaries = append(summaries, summary)
			}

			if jsonOutput {
				if err := printJSONList(cmd.OutOrStdout(), summaries); err != nil {
					return err
				}
			} else {
				printSummaries(cmd.OutOrStdout(), summaries, newStatusPainter(cmd.OutOrStdout(), cfg.Logging.NoColor))
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d files failed analysis: %w", invalid, len(summaries), humdrum.ErrInvalidDocument)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print summaries as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not record summaries in the analysis cache")
	return cmd
}

func printSummaries(out io.Writer, summaries []analysiscache.Summary, painter statusPainter) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Path,
			painter.validity(s.Valid),
			fmt.Sprintf("%d", s.MaxTrack),
			fmt.Sprintf("%d", s.LineCount),
			formatDuration(s.ScoreDuration),
			s.TPQ,
			truncate(s.ParseError, maxErrorColumnWidth),
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"File", "Status", "Tracks", "Lines", "Duration", "TPQ", "Error"},
		rows:    rows,
		numeric: []int{2, 3, 4, 5},
	}.render())
}

// truncate shortens s to at most limit runes, ending in "...".
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
