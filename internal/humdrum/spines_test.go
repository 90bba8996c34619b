package humdrum_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"humspine/internal/annotation"
	"humspine/internal/humdrum"
)

func tokenTexts(tokens []*humdrum.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Text())
	}
	return out
}

func mustRead(t *testing.T, text string, opts ...humdrum.Option) *humdrum.Document {
	t.Helper()
	doc := humdrum.ReadString(text, opts...)
	if !doc.IsValid() {
		t.Fatalf("document invalid: %s", doc.ParseError())
	}
	return doc
}

func TestMergedSpineInfo(t *testing.T) {
	tests := []struct {
		name  string
		info  []string
		start int
		extra int
		want  string
	}{
		{"pair", []string{"(1)a", "(1)b"}, 0, 1, "1"},
		{"offset", []string{"2", "(1)a", "(1)b"}, 1, 1, "1"},
		{"nested", []string{"((1)a)a", "((1)a)b", "(1)b"}, 0, 2, "1"},
		{"four way", []string{"((1)a)a", "((1)a)b", "((1)b)a", "((1)b)b"}, 0, 3, "1"},
		{"strangers", []string{"1", "2"}, 0, 1, "1 2"},
		{"single", []string{"(3)a"}, 0, 0, "(3)a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := humdrum.MergedSpineInfo(tt.info, tt.start, tt.extra); got != tt.want {
				t.Fatalf("MergedSpineInfo = %q, want %q", got, tt.want)
			}
		})
	}
}

const splitMerge = "**kern\n*^\n4c\t4e\n*v\t*v\n4d\n*-\n"

func TestSplitAndMerge(t *testing.T) {
	doc := mustRead(t, splitMerge)

	if doc.MaxTrack() != 1 {
		t.Fatalf("MaxTrack = %d, want 1", doc.MaxTrack())
	}
	var infos []string
	var subtracks []int
	for _, tok := range doc.Line(2).Tokens() {
		infos = append(infos, tok.SpineInfo())
		subtracks = append(subtracks, tok.Subtrack())
	}
	if diff := cmp.Diff([]string{"(1)a", "(1)b"}, infos); diff != "" {
		t.Fatalf("split spine info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, subtracks); diff != "" {
		t.Fatalf("subtrack mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Token(4, 0).SpineInfo(); got != "1" {
		t.Fatalf("merged spine info = %q, want 1", got)
	}
	if got := tokenTexts(doc.Token(1, 0).NextTokens()); !cmp.Equal(got, []string{"4c", "4e"}) {
		t.Fatalf("split successors = %v", got)
	}
	if got := doc.Token(4, 0).PreviousTokenCount(); got != 2 {
		t.Fatalf("merge target has %d predecessors, want 2", got)
	}
	if got := tokenTexts(doc.Token(4, 0).PreviousNonNullDataTokens()); !cmp.Equal(got, []string{"4c", "4e"}) {
		t.Fatalf("previous non-null data = %v", got)
	}
	if doc.TrackEndCount(1) != 1 || doc.TrackEnd(1, 0) != doc.Token(5, 0) {
		t.Fatalf("track 1 should end on the final terminator")
	}
}

func TestExchange(t *testing.T) {
	doc := mustRead(t, "**kern\t**text\n*x\t*x\na\t4c\n*-\t*-\n")

	if got := doc.Token(2, 0).Track(); got != 2 {
		t.Fatalf("exchanged field 0 track = %d, want 2", got)
	}
	if got := doc.Token(2, 1).DataType(); got != "**kern" {
		t.Fatalf("exchanged field 1 data type = %q, want **kern", got)
	}
	if doc.Token(1, 0).NextToken(0) != doc.Token(2, 1) {
		t.Fatalf("*x on field 0 should link to field 1")
	}
	if doc.TrackEnd(1, 0) != doc.Token(3, 1) || doc.TrackEnd(2, 0) != doc.Token(3, 0) {
		t.Fatalf("terminators recorded under the wrong track")
	}
}

func TestAddSpine(t *testing.T) {
	doc := mustRead(t, "**kern\n*+\n*\t**kern\n4c\t4d\n*-\t*-\n")

	if doc.MaxTrack() != 2 {
		t.Fatalf("MaxTrack = %d, want 2", doc.MaxTrack())
	}
	start := doc.TrackStart(2)
	if start == nil || start.LineIndex() != 2 {
		t.Fatalf("track 2 should start on line index 2, got %v", start)
	}
	if start.PreviousTokenCount() != 0 {
		t.Fatalf("added spine start should have no predecessor")
	}
	if got := doc.Token(3, 1).DurationFromStart(); !got.IsZero() {
		t.Fatalf("floating spine note starts at %s, want 0", got)
	}
	if got := doc.SpineStartListOfType("kern"); len(got) != 2 {
		t.Fatalf("SpineStartListOfType(kern) = %d starts, want 2", len(got))
	}
}

func TestStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"lone merge", "**kern\n*v\n*-\n", "single spine merge"},
		{"lone exchange", "**kern\t**kern\n*x\t*\n*-\t*-\n", "*x is all alone"},
		{"field count", "**kern\t**kern\n4c\n*-\t*-\n", "expected 2 fields on line 2 but found 1"},
		{"data first", "4c\n*-\n", "data found before exclusive interpretation"},
		{"add never started", "**kern\n*+\n*\t*\n*-\t*-\n", "spine 2 was added but never given"},
		{"add started late", "**kern\n*+\n*\t*\n*\t**kern\n*-\t*-\n", "expecting exclusive interpretation"},
		{"exclusive without add", "**kern\n**text\n*-\n", "exclusive interpretation with no preparation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := humdrum.ReadString(tt.text)
			if doc.IsValid() {
				t.Fatalf("expected invalid document")
			}
			if !strings.Contains(doc.ParseError(), tt.want) {
				t.Fatalf("ParseError = %q, want it to contain %q", doc.ParseError(), tt.want)
			}
			if !errors.Is(doc.Err(), humdrum.ErrStructure) {
				t.Fatalf("Err = %v, want ErrStructure", doc.Err())
			}
		})
	}
}

func TestNonNullLinksAcrossSplitAndMerge(t *testing.T) {
	doc := mustRead(t, "**kern\n4c\n*^\n4d\t.\n4e\t4f\n*v\t*v\n.\n4g\n*-\n")

	tests := []struct {
		name       string
		line, fld  int
		prev, next []string
	}{
		{"before split", 1, 0, nil, []string{"4d"}},
		{"split", 2, 0, []string{"4c"}, []string{"4d", "4f"}},
		{"null after split", 3, 1, []string{"4c"}, []string{"4f"}},
		{"note in second sub-spine", 4, 1, []string{"4c"}, []string{"4g"}},
		{"null after merge", 6, 0, []string{"4e", "4f"}, []string{"4g"}},
		{"note after merge", 7, 0, []string{"4e"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := doc.Token(tt.line, tt.fld)
			if diff := cmp.Diff(tt.prev, tokenTexts(tok.PreviousNonNullDataTokens()), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("previous non-null mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.next, tokenTexts(tok.NextNonNullDataTokens()), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("next non-null mismatch (-want +got):\n%s", diff)
			}
			stashed, ok := annotation.Lookup(tok.Annotations(), humdrum.NextNonNullKey)
			if ok != (len(tt.next) > 0) || len(stashed) != len(tt.next) {
				t.Errorf("stashed next non-null = %v, %v", stashed, ok)
			}
		})
	}
}

func TestNonNullLinksStayBoundedOnLongSplitMergeRuns(t *testing.T) {
	const blocks = 20000
	var b strings.Builder
	b.WriteString("**kern\n")
	for i := 0; i < blocks; i++ {
		b.WriteString("*^\n4c\t.\n*v\t*v\n")
	}
	b.WriteString("*-\n")
	doc := mustRead(t, b.String(), humdrum.WithRhythm(false))

	for i := 1; i < doc.LineCount(); i++ {
		for _, tok := range doc.Line(i).Tokens() {
			if n := len(tok.PreviousNonNullDataTokens()); n > 2 {
				t.Fatalf("line %d field %d has %d previous non-null tokens", i+1, tok.FieldIndex(), n)
			}
			if n := len(tok.NextNonNullDataTokens()); n > 2 {
				t.Fatalf("line %d field %d has %d next non-null tokens", i+1, tok.FieldIndex(), n)
			}
		}
	}
	end := doc.Line(-1).Token(0)
	last, previous := doc.Line(-3).Token(0), doc.Line(-6).Token(0)
	got := end.PreviousNonNullDataTokens()
	if len(got) != 2 || got[0] != last || got[1] != previous {
		t.Fatalf("terminator sees %d previous non-null tokens, want the last two notes", len(got))
	}
}
