package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"humspine/internal/analysiscache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the analysis cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePathCommand(ctx))

	return cacheCmd
}

// openCacheStore opens the configured cache. A disabled cache is an error
// so list and clear never create a database nobody asked for.
func openCacheStore(ctx *commandContext) (*analysiscache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, errors.New("analysis cache is disabled (set [cache] enabled = true)")
	}
	store, err := analysiscache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open analysis cache: %w", err)
	}
	return store, nil
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached analysis summaries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCacheStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(commandCtx(cmd), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSONList(cmd.OutOrStdout(), summaries)
			}
			cfg, _ := ctx.ensureConfig()
			printCacheEntries(cmd.OutOrStdout(), summaries, newStatusPainter(cmd.OutOrStdout(), cfg.Logging.NoColor))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func printCacheEntries(out io.Writer, summaries []analysiscache.Summary, painter statusPainter) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "Cached analyses: none")
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		hash := s.ContentHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Path,
			painter.validity(s.Valid),
			formatDuration(s.ScoreDuration),
			hash,
			s.AnalyzedAt.Local().Format(stampLayout),
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"#", "File", "Status", "Duration", "Hash", "Analyzed"},
		rows:    rows,
		numeric: []int{0, 3},
	}.render())
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCacheStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(commandCtx(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s\n", removed, pluralize(removed, "analysis", "analyses"))
			return nil
		},
	}
}

func newCachePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the analysis cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cfg.Cache.Path)
			if !cfg.Cache.Enabled {
				fmt.Fprintln(cmd.ErrOrStderr(), "cache is disabled")
			}
			return nil
		},
	}
}

func pluralize(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
