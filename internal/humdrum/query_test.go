package humdrum_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"humspine/internal/humdrum"
)

func TestTrackSequence(t *testing.T) {
	doc := mustRead(t, splitMerge)

	var rows [][]string
	for _, row := range doc.TrackSequence(1, humdrum.OptData) {
		rows = append(rows, tokenTexts(row))
	}
	want := [][]string{{"4c", "4e"}, {"4d"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("TrackSequence mismatch (-want +got):\n%s", diff)
	}

	primary := tokenTexts(doc.PrimaryTrackSequence(1, humdrum.OptData))
	if diff := cmp.Diff([]string{"4c", "4d"}, primary); diff != "" {
		t.Fatalf("PrimaryTrackSequence mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackSequenceAttacks(t *testing.T) {
	doc := mustRead(t, "!! opening\n**kern\n4c\n4r\n4c[\n4c]\n.\n*-\n")

	got := tokenTexts(doc.PrimaryTrackSequence(1, humdrum.OptAttacks))
	if diff := cmp.Diff([]string{"4c", "4c["}, got); diff != "" {
		t.Fatalf("attack sequence mismatch (-want +got):\n%s", diff)
	}

	all := doc.TrackSequence(1, 0)
	if len(all) != doc.LineCount() {
		t.Fatalf("unfiltered sequence has %d rows, want %d", len(all), doc.LineCount())
	}
	if all[0][0].Text() != "!! opening" {
		t.Fatalf("global comment should lead the unfiltered sequence, got %q", all[0][0].Text())
	}
}

func TestTrackSequenceSkipsOtherTracks(t *testing.T) {
	doc := mustRead(t, "**kern\t**kern\n4c\t4d\n.\t4e\n*-\t*-\n")

	got := doc.TrackSequence(1, humdrum.OptNoEmpty|humdrum.OptNoInterp)
	var texts [][]string
	for _, row := range got {
		texts = append(texts, tokenTexts(row))
	}
	if diff := cmp.Diff([][]string{{"4c"}}, texts); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}
