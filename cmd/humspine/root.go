package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "humspine",
		Short:         "Analyze Humdrum spine files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			_, err := ctx.ensureLogger()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")
	pf.BoolVar(&flags.noRhythm, "no-rhythm", false, "Skip rhythm analysis")
	pf.StringVar(&flags.encoding, "encoding", "", "Fallback encoding for non-UTF-8 input (latin1, windows1252, none)")

	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newTracksCommand(ctx))
	rootCmd.AddCommand(newLinesCommand(ctx))
	rootCmd.AddCommand(newStrandsCommand(ctx))
	rootCmd.AddCommand(newSequenceCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
