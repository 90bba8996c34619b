package analysiscache

import (
	"time"

	"github.com/google/uuid"

	"humspine/internal/humdrum"
	"humspine/internal/rational"
)

// Summary is the cached outcome of analyzing one file.
type Summary struct {
	ID            string       `json:"id"`
	Path          string       `json:"path"`
	ContentHash   string       `json:"content_hash"`
	Valid         bool         `json:"valid"`
	ParseError    string       `json:"parse_error,omitempty"`
	MaxTrack      int          `json:"max_track"`
	LineCount     int          `json:"line_count"`
	ScoreDuration rational.Rat `json:"score_duration"`
	TPQ           string       `json:"tpq"`
	AnalyzedAt    time.Time    `json:"analyzed_at"`
}

// Summarize captures the headline results of doc. Invalid documents keep
// their parse error and report a score duration of -1.
func Summarize(doc *humdrum.Document, path, contentHash string) Summary {
	s := Summary{
		ID:            uuid.NewString(),
		Path:          path,
		ContentHash:   contentHash,
		Valid:         doc.IsValid(),
		MaxTrack:      doc.MaxTrack(),
		LineCount:     doc.LineCount(),
		ScoreDuration: rational.MinusOne,
		TPQ:           "1",
		AnalyzedAt:    time.Now().UTC(),
	}
	if !s.Valid {
		s.ParseError = doc.ParseError()
		return s
	}
	s.ScoreDuration = doc.ScoreDuration()
	s.TPQ = doc.TPQ().String()
	return s
}
