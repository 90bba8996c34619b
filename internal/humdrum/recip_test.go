package humdrum_test

import (
	"testing"

	"humspine/internal/humdrum"
	"humspine/internal/rational"
)

func TestRecipToDuration(t *testing.T) {
	tests := []struct {
		text string
		want rational.Rat
	}{
		{"4", rational.One},
		{"4.", rational.New(3, 2)},
		{"4..", rational.New(7, 4)},
		{"8c", rational.New(1, 2)},
		{"12e-", rational.New(1, 3)},
		{"2", rational.FromInt(2)},
		{"1", rational.FromInt(4)},
		{"0", rational.FromInt(8)},
		{"00", rational.FromInt(16)},
		{"3%2", rational.New(8, 3)},
		{"4c 8e", rational.One},
		{"8qc", rational.Zero},
		{"r", rational.Zero},
	}
	for _, tt := range tests {
		got := humdrum.RecipToDuration(tt.text, 4)
		if !got.Equal(tt.want) {
			t.Errorf("RecipToDuration(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestRecipScale(t *testing.T) {
	if got := humdrum.RecipToDuration("4", 1); !got.Equal(rational.New(1, 4)) {
		t.Fatalf("quarter note in whole-note units = %s, want 1/4", got)
	}
	if got := humdrum.RecipToDurationNoDots("4..", 4); !got.Equal(rational.One) {
		t.Fatalf("undotted 4.. = %s, want 1", got)
	}
}

func TestMensToDuration(t *testing.T) {
	tests := []struct {
		text string
		want rational.Rat
	}{
		{"S", rational.FromInt(8)},
		{"Sp", rational.FromInt(12)},
		{"Spi", rational.FromInt(8)},
		{"s", rational.FromInt(4)},
		{"M", rational.FromInt(2)},
		{"m", rational.One},
		{"X", rational.FromInt(32)},
		{"Lp", rational.FromInt(24)},
		{"u", rational.New(1, 4)},
	}
	for _, tt := range tests {
		got := humdrum.MensToDuration(tt.text, 4)
		if !got.Equal(tt.want) {
			t.Errorf("MensToDuration(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
