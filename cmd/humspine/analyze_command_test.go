package main

import (
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"humspine/internal/analysiscache"
	"humspine/internal/humdrum"
	"humspine/internal/rational"
	"humspine/internal/testsupport"
)

const (
	twoBars  = "**kern\n*M2/4\n=1\n4c\n4d\n=2\n2e\n*-\n"
	loneSwap = "**kern\n*x\n*-\n"
)

func TestAnalyzeTable(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeFile(t, "two-bars.krn", twoBars)

	out, _, err := runCLI(t, env, "analyze", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "two-bars.krn")
	requireContains(t, out, "valid")
	requireContains(t, out, "Duration")
}

func TestAnalyzeJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeFile(t, "two-bars.krn", twoBars)

	out, _, err := runCLI(t, env, "analyze", "--json", path)
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}
	var summaries []analysiscache.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if !s.Valid || s.MaxTrack != 1 || s.LineCount != 8 {
		t.Fatalf("unexpected summary: %#v", s)
	}
	if !s.ScoreDuration.Equal(rational.FromInt(4)) {
		t.Fatalf("expected duration 4, got %s", s.ScoreDuration)
	}
	if len(s.ContentHash) != 64 {
		t.Fatalf("expected sha256 hex hash, got %q", s.ContentHash)
	}
}

func TestAnalyzeNoRhythmFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeFile(t, "two-bars.krn", twoBars)

	out, _, err := runCLI(t, env, "--no-rhythm", "analyze", "--json", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var summaries []analysiscache.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !summaries[0].ScoreDuration.IsNegative() {
		t.Fatalf("expected unanalyzed duration, got %s", summaries[0].ScoreDuration)
	}
}

func TestAnalyzeRhythmDisabledByConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutRhythm())
	path := env.writeFile(t, "two-bars.krn", twoBars)

	out, _, err := runCLI(t, env, "analyze", "--json", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var summaries []analysiscache.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !summaries[0].Valid || !summaries[0].ScoreDuration.IsNegative() {
		t.Fatalf("expected valid summary without timing, got %#v", summaries[0])
	}
}

func TestAnalyzeReportsInvalidFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	good := env.writeFile(t, "good.krn", twoBars)
	bad := env.writeFile(t, "bad.krn", loneSwap)

	out, _, err := runCLI(t, env, "analyze", good, bad)
	if err == nil {
		t.Fatal("expected error when a file is invalid")
	}
	if !errors.Is(err, humdrum.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	requireContains(t, err.Error(), "1 of 2 files")
	requireContains(t, out, "invalid")
	requireContains(t, out, "bad.krn")
}

func TestAnalyzeMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "analyze", env.baseDir+"/missing.krn"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnalyzeRejectsUnknownEncoding(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeFile(t, "two-bars.krn", twoBars)
	_, _, err := runCLI(t, env, "--encoding", "ebcdic", "analyze", path)
	if err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
	requireContains(t, err.Error(), "ebcdic")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "ok", 10, "ok"},
		{"ascii", "abcdefghij", 8, "abcde..."},
		{"multibyte", "ééééééééé", 6, "ééé..."},
		{"exact", "ééé", 3, "ééé"},
		{"tiny limit", "ééééé", 2, "éé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.limit)
			if got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
