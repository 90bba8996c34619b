package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"humspine/internal/humdrum"
	"humspine/internal/rational"
)

// formatDuration prints unanalyzed (-1) timing as a dash.
func formatDuration(r rational.Rat) string {
	if r.IsNegative() {
		return "-"
	}
	return r.String()
}

func tokenPosition(tok *humdrum.Token) string {
	if tok == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%d", tok.LineNumber(), tok.FieldIndex()+1)
}

type trackRow struct {
	Track     int    `json:"track"`
	DataType  string `json:"data_type"`
	StartLine int    `json:"start_line"`
	EndCount  int    `json:"end_count"`
	EndLines  []int  `json:"end_lines"`
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "tracks FILE",
		Short: "List tracks with their data types and terminators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.loadValidFile(commandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			tracks := collectTracks(f.doc)
			if jsonOutput {
				return printJSONList(cmd.OutOrStdout(), tracks)
			}
			printTracks(cmd.OutOrStdout(), tracks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print tracks as JSON")
	return cmd
}

func collectTracks(doc *humdrum.Document) []trackRow {
	rows := make([]trackRow, 0, doc.MaxTrack())
	for track := 1; track <= doc.MaxTrack(); track++ {
		start := doc.TrackStart(track)
		if start == nil {
			continue
		}
		row := trackRow{
			Track:     track,
			DataType:  start.Text(),
			StartLine: start.LineNumber(),
			EndCount:  doc.TrackEndCount(track),
			EndLines:  []int{},
		}
		for i := 0; i < row.EndCount; i++ {
			if end := doc.TrackEnd(track, i); end != nil {
				row.EndLines = append(row.EndLines, end.LineNumber())
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func printTracks(out io.Writer, tracks []trackRow) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		ends := make([]string, 0, len(t.EndLines))
		for _, n := range t.EndLines {
			ends = append(ends, strconv.Itoa(n))
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Track),
			t.DataType,
			strconv.Itoa(t.StartLine),
			strconv.Itoa(t.EndCount),
			strings.Join(ends, ","),
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"Track", "Type", "Start", "Ends", "End lines"},
		rows:    rows,
		numeric: []int{0, 2, 3},
	}.render())
}

func newLinesCommand(ctx *commandContext) *cobra.Command {
	var dataOnly bool
	cmd := &cobra.Command{
		Use:   "lines FILE",
		Short: "Show every line with its kind and timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.loadValidFile(commandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, f.doc.LineCount())
			for _, line := range f.doc.Lines() {
				if dataOnly && !line.IsData() {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(line.LineNumber()),
					line.Kind().String(),
					formatDuration(line.Duration()),
					formatDuration(line.DurationFromStart()),
					formatDuration(line.DurationFromBarline()),
					formatDuration(line.DurationToBarline()),
					strings.ReplaceAll(line.Text(), "\t", "  "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tableView{
				title:   args[0],
				headers: []string{"Line", "Kind", "Dur", "From start", "From bar", "To bar", "Text"},
				rows:    rows,
				numeric: []int{0, 2, 3, 4, 5},
			}.render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dataOnly, "data", false, "Only show data lines")
	return cmd
}

func newStrandsCommand(ctx *commandContext) *cobra.Command {
	var track int
	cmd := &cobra.Command{
		Use:   "strands FILE",
		Short: "List strands in track order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.loadValidFile(commandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			doc := f.doc
			rows := make([][]string, 0, doc.StrandCount())
			for i := 0; i < doc.StrandCount(); i++ {
				start := doc.StrandStart(i)
				end := doc.StrandEnd(i)
				if track > 0 && start.Track() != track {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(i),
					strconv.Itoa(start.Track()),
					strconv.Itoa(start.Subtrack()),
					tokenPosition(start),
					tokenPosition(end),
					start.SpineInfo(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tableView{
				headers: []string{"Strand", "Track", "Subtrack", "Start", "End", "Spine"},
				rows:    rows,
				numeric: []int{0, 1, 2},
			}.render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&track, "track", "t", 0, "Only show strands of this track")
	return cmd
}

type sequenceFlags struct {
	track     int
	primary   bool
	noEmpty   bool
	noNull    bool
	noInterp  bool
	noManip   bool
	noComment bool
	noGlobal  bool
	noRest    bool
	noTie     bool
	data      bool
	attacks   bool
}

func (f sequenceFlags) options() humdrum.SequenceOption {
	var opts humdrum.SequenceOption
	set := []struct {
		on  bool
		opt humdrum.SequenceOption
	}{
		{f.primary, humdrum.OptPrimary},
		{f.noEmpty, humdrum.OptNoEmpty},
		{f.noNull, humdrum.OptNoNull},
		{f.noInterp, humdrum.OptNoInterp},
		{f.noManip, humdrum.OptNoManip},
		{f.noComment, humdrum.OptNoComment},
		{f.noGlobal, humdrum.OptNoGlobal},
		{f.noRest, humdrum.OptNoRest},
		{f.noTie, humdrum.OptNoTie},
		{f.data, humdrum.OptData},
		{f.attacks, humdrum.OptAttacks},
	}
	for _, s := range set {
		if s.on {
			opts |= s.opt
		}
	}
	return opts
}

func newSequenceCommand(ctx *commandContext) *cobra.Command {
	flags := sequenceFlags{}
	cmd := &cobra.Command{
		Use:   "sequence FILE",
		Short: "Print the token sequence of one track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.loadValidFile(commandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			if flags.track < 1 || flags.track > f.doc.MaxTrack() {
				return fmt.Errorf("track %d out of range (file has %d tracks)", flags.track, f.doc.MaxTrack())
			}
			out := cmd.OutOrStdout()
			for _, row := range f.doc.TrackSequence(flags.track, flags.options()) {
				texts := make([]string, 0, len(row))
				for _, tok := range row {
					texts = append(texts, tok.Text())
				}
				fmt.Fprintln(out, strings.Join(texts, "\t"))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&flags.track, "track", "t", 1, "Track number (1-based)")
	fs.BoolVar(&flags.primary, "primary", false, "Only the first sub-spine of the track")
	fs.BoolVar(&flags.noEmpty, "no-empty", false, "Skip lines where the track is all null")
	fs.BoolVar(&flags.noNull, "no-null", false, "Drop null tokens")
	fs.BoolVar(&flags.noInterp, "no-interp", false, "Drop interpretations")
	fs.BoolVar(&flags.noManip, "no-manip", false, "Drop spine manipulators")
	fs.BoolVar(&flags.noComment, "no-comment", false, "Drop local comments")
	fs.BoolVar(&flags.noGlobal, "no-global", false, "Drop global lines")
	fs.BoolVar(&flags.noRest, "no-rest", false, "Drop rests")
	fs.BoolVar(&flags.noTie, "no-tie", false, "Drop tie continuations")
	fs.BoolVar(&flags.data, "data", false, "Data, barlines and plain interpretations only")
	fs.BoolVar(&flags.attacks, "attacks", false, "Only tokens where notes begin")
	return cmd
}
