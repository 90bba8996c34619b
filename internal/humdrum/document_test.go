package humdrum_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"humspine/internal/humdrum"
	"humspine/internal/rational"
)

const twoBars = "**kern\n*M2/4\n=1\n4c\n4d\n=2\n2e\n*-\n"

func TestEndToEndTiming(t *testing.T) {
	doc := mustRead(t, twoBars)

	if doc.MaxTrack() != 1 {
		t.Fatalf("MaxTrack = %d, want 1", doc.MaxTrack())
	}
	checks := []struct {
		line int
		want rational.Rat
	}{
		{3, rational.Zero},
		{4, rational.One},
		{5, rational.FromInt(2)},
		{6, rational.FromInt(2)},
		{7, rational.FromInt(4)},
	}
	for _, c := range checks {
		if got := doc.Line(c.line).DurationFromStart(); !got.Equal(c.want) {
			t.Errorf("line %d durationFromStart = %s, want %s", c.line, got, c.want)
		}
	}
	if got := doc.ScoreDuration(); !got.Equal(rational.FromInt(4)) {
		t.Fatalf("ScoreDuration = %s, want 4", got)
	}
	if got := doc.Token(4, 0).DurationFromBarline(); !got.Equal(rational.One) {
		t.Fatalf("4d durationFromBarline = %s, want 1", got)
	}
	if got := doc.TPQ().Int64(); got != 1 {
		t.Fatalf("TPQ = %d, want 1", got)
	}
	var bars []int
	for _, line := range doc.Barlines() {
		bars = append(bars, line.BarNumber())
	}
	if diff := cmp.Diff([]int{1, 2}, bars); diff != "" {
		t.Fatalf("bar numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestRhythmConsistency(t *testing.T) {
	texts := []string{
		twoBars,
		splitMerge,
		"**kern\t**kern\n4c\t8d\n.\t8e\n4f\t4g\n*-\t*-\n",
		"**kern\t**text\n4c\ta\n.\tb\n4d\tc\n*-\t*-\n",
	}
	for _, text := range texts {
		doc := mustRead(t, text)
		sum := rational.Zero
		prev := rational.Zero
		for _, line := range doc.Lines() {
			if line.DurationFromStart().Less(prev) {
				t.Fatalf("line %d starts at %s before the previous line at %s", line.LineNumber(), line.DurationFromStart(), prev)
			}
			prev = line.DurationFromStart()
			sum = sum.Add(line.Duration())
		}
		if !sum.Equal(doc.ScoreDuration()) {
			t.Fatalf("line durations sum to %s, score duration is %s", sum, doc.ScoreDuration())
		}
	}
}

func TestInconsistentRhythm(t *testing.T) {
	doc := humdrum.ReadString("**kern\t**kern\n4c\t2d\n4e\t4f\n*-\t*-\n")
	if doc.IsValid() {
		t.Fatalf("expected rhythm conflict")
	}
	if !errors.Is(doc.Err(), humdrum.ErrRhythm) {
		t.Fatalf("Err = %v, want ErrRhythm", doc.Err())
	}
	if !strings.Contains(doc.ParseError(), "inconsistent rhythm analysis occurring near line 3") {
		t.Fatalf("ParseError = %q", doc.ParseError())
	}
	var aerr *humdrum.AnalysisError
	if !errors.As(doc.Err(), &aerr) || aerr.Line != 3 {
		t.Fatalf("expected AnalysisError on line 3, got %v", doc.Err())
	}
}

func TestRhythmDisabled(t *testing.T) {
	doc := mustRead(t, twoBars, humdrum.WithRhythm(false))
	if !doc.ScoreDuration().IsNegative() {
		t.Fatalf("ScoreDuration without rhythm = %s, want -1", doc.ScoreDuration())
	}
	if !doc.Line(4).DurationFromStart().IsNegative() {
		t.Fatalf("line timing should stay unanalyzed")
	}
}

func TestNullLineInterpolation(t *testing.T) {
	doc := mustRead(t, "**kern\t**text\n4c\ta\n.\tb\n4d\tc\n*-\t*-\n")

	if got := doc.Line(2).DurationFromStart(); !got.Equal(rational.New(1, 2)) {
		t.Fatalf("null line starts at %s, want 1/2", got)
	}
	if got := doc.Token(1, 1).Duration(); !got.Equal(rational.New(1, 2)) {
		t.Fatalf("text token duration = %s, want 1/2", got)
	}
	if got := doc.Token(3, 1).Duration(); !got.Equal(rational.One) {
		t.Fatalf("last text token duration = %s, want 1", got)
	}
}

func TestNullResolution(t *testing.T) {
	doc := mustRead(t, "**kern\t**kern\n2c\t4d\n.\t4e\n*-\t*-\n")

	null := doc.Token(2, 0)
	first := null.NullResolution()
	doc.ResolveNullTokens()
	second := null.NullResolution()
	if first == nil || first != second {
		t.Fatalf("null resolution not stable: %v then %v", first, second)
	}
	if first.Text() != "2c" {
		t.Fatalf("null resolves to %q, want 2c", first.Text())
	}
	if !null.IsSustainedNote() {
		t.Fatalf("null over a note should be sustained")
	}
	if res := doc.Token(2, 1).NullResolution(); res != doc.Token(2, 1) {
		t.Fatalf("non-null data should resolve to itself")
	}
	if res := doc.Token(0, 0).NullResolution(); res != nil {
		t.Fatalf("interpretations do not resolve, got %v", res)
	}
}

func TestLinkTotality(t *testing.T) {
	for _, text := range []string{twoBars, splitMerge, "**kern\t**text\n*x\t*x\na\t4c\n*-\t*-\n"} {
		doc := mustRead(t, text)
		for _, line := range doc.Lines() {
			if !line.HasSpines() {
				continue
			}
			for _, tok := range line.Tokens() {
				if tok.IsTerminateInterpretation() {
					if tok.NextTokenCount() != 0 {
						t.Fatalf("terminator on line %d has successors", line.LineNumber())
					}
					continue
				}
				if tok.NextTokenCount() == 0 {
					t.Fatalf("token %q on line %d has no successor", tok.Text(), line.LineNumber())
				}
				for _, next := range tok.NextTokens() {
					if next.LineIndex() <= tok.LineIndex() {
						t.Fatalf("link from line %d goes backward", line.LineNumber())
					}
				}
			}
		}
	}
}

func TestStrands(t *testing.T) {
	doc := mustRead(t, splitMerge)

	if doc.StrandCount() != 2 {
		t.Fatalf("StrandCount = %d, want 2", doc.StrandCount())
	}
	if doc.StrandStart(0) != doc.Token(0, 0) || doc.StrandEnd(0) != doc.Token(5, 0) {
		t.Fatalf("primary strand should run from **kern to *-")
	}
	if doc.StrandStart(1) != doc.Token(2, 1) || doc.StrandEnd(1) != doc.Token(3, 1) {
		t.Fatalf("secondary strand should run from 4e to its merge")
	}
	if got := doc.Token(2, 1).StrandIndex(); got != 1 {
		t.Fatalf("4e strand = %d, want 1", got)
	}
	if got := len(doc.StrandsForTrack(1)); got != 2 {
		t.Fatalf("track 1 strands = %d, want 2", got)
	}
}

func TestNegativeIndexes(t *testing.T) {
	doc := mustRead(t, twoBars)
	if doc.Line(-1) != doc.Line(7) {
		t.Fatalf("Line(-1) should be the last line")
	}
	if doc.Token(-1, -1).Text() != "*-" {
		t.Fatalf("Token(-1, -1) = %q", doc.Token(-1, -1).Text())
	}
	if doc.TrackStart(-1) != doc.TrackStart(1) {
		t.Fatalf("TrackStart(-1) should be the last track")
	}
	if doc.Line(99) != nil || doc.Token(0, 5) != nil {
		t.Fatalf("out of range lookups should return nil")
	}
}

func TestLineKinds(t *testing.T) {
	doc := mustRead(t, "!!!COM: Someone\n**kern\n!\n=1\n4c\n\n*-\n")
	want := []humdrum.LineKind{
		humdrum.LineReference,
		humdrum.LineInterpretation,
		humdrum.LineLocalComment,
		humdrum.LineBarline,
		humdrum.LineData,
		humdrum.LineEmpty,
		humdrum.LineInterpretation,
	}
	var got []humdrum.LineKind
	for _, line := range doc.Lines() {
		got = append(got, line.Kind())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("line kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestSetTextKeepsLineInSync(t *testing.T) {
	doc := mustRead(t, "**kern\t**kern\n4c\t4d\n*-\t*-\n")
	doc.Token(1, 1).SetText("8e")
	if got := doc.Line(1).Text(); got != "4c\t8e" {
		t.Fatalf("line text = %q, want 4c<tab>8e", got)
	}
	if got := doc.Token(1, 1).Duration(); !got.Equal(rational.New(1, 2)) {
		t.Fatalf("duration after SetText = %s, want 1/2", got)
	}
}

func TestReadBytesFallbackEncoding(t *testing.T) {
	raw := []byte("**text\n\xe9t\xe9\n*-\n")

	doc, err := humdrum.ReadBytes(raw)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if got := doc.Token(1, 0).Text(); got != "été" {
		t.Fatalf("decoded token = %q, want été", got)
	}

	_, err = humdrum.ReadBytes(raw, humdrum.WithFallbackEncoding(humdrum.EncodingNone))
	if !errors.Is(err, humdrum.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestReadStripsBOMAndCarriageReturns(t *testing.T) {
	doc := mustRead(t, "\ufeff**kern\r\n4c\r\n*-\r\n")
	if doc.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", doc.LineCount())
	}
	if doc.Line(0).Text() != "**kern" {
		t.Fatalf("first line = %q", doc.Line(0).Text())
	}
}

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestInvalidDocumentLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	doc := humdrum.ReadString("**kern\n*v\n*-\n", humdrum.WithLogger(debugLogger(&buf)))

	for i := 0; i < 3; i++ {
		if doc.IsValid() {
			t.Fatalf("expected invalid document")
		}
	}
	if got := strings.Count(buf.String(), "spine data is invalid"); got != 1 {
		t.Fatalf("parse error logged %d times, want 1:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "single spine merge") {
		t.Fatalf("logged warning lacks the reason:\n%s", buf.String())
	}
}

func TestFloatingSpines(t *testing.T) {
	t.Run("starts after data", func(t *testing.T) {
		doc := mustRead(t, "**kern\n2c\n*+\n*\t**text\n.\ta\n4d\tb\n4e\tc\n*-\t*-\n")

		checks := []struct {
			line int
			want rational.Rat
		}{
			{1, rational.Zero},
			{4, rational.One},
			{5, rational.FromInt(2)},
			{6, rational.FromInt(3)},
			{7, rational.FromInt(4)},
		}
		for _, c := range checks {
			if got := doc.Line(c.line).DurationFromStart(); !got.Equal(c.want) {
				t.Errorf("line %d durationFromStart = %s, want %s", c.line, got, c.want)
			}
		}
		if got := doc.Token(4, 1).Duration(); !got.Equal(rational.One) {
			t.Fatalf("first text token duration = %s, want 1", got)
		}
	})

	t.Run("kern spine added mid-score", func(t *testing.T) {
		doc := mustRead(t, "**kern\n4c\n*+\n*\t**kern\n4d\t8e\n.\t8f\n*-\t*-\n")

		if got := doc.Token(4, 1).DurationFromStart(); !got.Equal(rational.One) {
			t.Fatalf("floating spine note starts at %s, want 1", got)
		}
		if got := doc.Line(5).DurationFromStart(); !got.Equal(rational.New(3, 2)) {
			t.Fatalf("second floating note starts at %s, want 3/2", got)
		}
	})

	t.Run("cannot link to score", func(t *testing.T) {
		doc := humdrum.ReadString("**text\n*+\n*\t**kern\na\t4c\n*-\t*-\n")
		if doc.IsValid() {
			t.Fatalf("expected floating spine failure")
		}
		if !errors.Is(doc.Err(), humdrum.ErrRhythm) {
			t.Fatalf("Err = %v, want ErrRhythm", doc.Err())
		}
		if !strings.Contains(doc.ParseError(), "cannot link floating spine starting on line 3 to score") {
			t.Fatalf("ParseError = %q", doc.ParseError())
		}
	})
}

func TestMergeArrivalMismatchIsLogged(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		logged bool
	}{
		{"notes disagree", "**kern\n*^\n4c\t2d\n*v\t*v\n4e\n*-\n", true},
		{"notes agree", "**kern\n*^\n4c\t8d\n.\t8e\n*v\t*v\n4f\n*-\n", false},
		{"null sub-spine", "**kern\n*^\n4c\t.\n*v\t*v\n4e\n*-\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mustRead(t, tt.text, humdrum.WithLogger(debugLogger(&buf)))

			logged := strings.Contains(buf.String(), "merged sub-spines arrive at different times")
			if logged != tt.logged {
				t.Fatalf("mismatch logged = %v, want %v:\n%s", logged, tt.logged, buf.String())
			}
			if tt.logged && !strings.Contains(buf.String(), `"late_arrival":"2"`) {
				t.Fatalf("record lacks the late arrival time:\n%s", buf.String())
			}
		})
	}
}
