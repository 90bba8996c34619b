package humdrum

import (
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"humspine/internal/logging"
	"humspine/internal/rational"
)

// Document is an analyzed spine file. It owns every Line and Token.
type Document struct {
	lines  []*Line
	tokens []*Token

	// trackStarts[0] is unused so tracks index from 1.
	trackStarts []TokenID
	trackEnds   [][]TokenID
	barlines    []int

	strands        []Strand
	strandsByTrack [][]int

	signifiers []Signifier

	scoreDuration rational.Rat
	tpq           *big.Int

	err         *AnalysisError
	errReported bool

	structureDone bool
	strandsDone   bool
	nullsResolved bool
	rhythmDone    bool
	rhythmGen     int
	mergeArrivals map[TokenID]rational.Rat

	opts   options
	log    *slog.Logger
	runID  string
	source string
}

// ReadString parses and analyzes text. Analysis failures are reported
// through IsValid, ParseError and Err rather than a returned error.
func ReadString(text string, opts ...Option) *Document {
	o := buildOptions(opts)
	d := &Document{opts: o, source: o.source}
	d.setText(text)
	d.analyze()
	return d
}

func (d *Document) setText(text string) {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := strings.Split(text, "\n")
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1]
	}
	d.lines = make([]*Line, 0, len(raw))
	for i, s := range raw {
		d.lines = append(d.lines, newLine(d, i, strings.TrimSuffix(s, "\r")))
	}
}

// rebuild re-tokenizes every line from its text and reruns the pipeline.
func (d *Document) rebuild() {
	d.analyze()
}

func (d *Document) resetAnalysis() {
	d.tokens = d.tokens[:0]
	for i, line := range d.lines {
		line.index = i
		line.resetTiming()
		line.annotations.DeleteNamespace(autoNamespace)
		line.tokenize()
	}
	d.trackStarts = []TokenID{NoToken}
	d.trackEnds = [][]TokenID{nil}
	d.barlines = nil
	d.strands = nil
	d.strandsByTrack = nil
	d.signifiers = nil
	d.scoreDuration = rational.MinusOne
	d.tpq = nil
	d.err = nil
	d.errReported = false
	d.structureDone = false
	d.strandsDone = false
	d.nullsResolved = false
	d.rhythmDone = false
}

// analyze runs the full pipeline, stopping at the first fatal error.
func (d *Document) analyze() {
	d.resetAnalysis()
	d.runID = uuid.NewString()
	d.log = logging.NewComponentLogger(d.opts.logger, "humdrum").With(
		logging.String(logging.FieldRunID, d.runID),
	)
	if d.source != "" {
		d.log = d.log.With(logging.String(logging.FieldPath, d.source))
	}

	passes := []struct {
		name string
		run  func() *AnalysisError
	}{
		{"spines", d.analyzeSpines},
		{"links", d.analyzeLinks},
		{"tracks", d.analyzeTracks},
		{"strands", d.analyzeStrands},
		{"parameters", d.analyzeGlobalParameters},
		{"signifiers", d.analyzeSignifiers},
		{"non-null links", d.analyzeNonNullDataTokens},
		{"rhythm", d.analyzeRhythm},
	}
	for _, pass := range passes {
		if pass.name == "rhythm" && !d.opts.rhythm {
			break
		}
		if err := pass.run(); err != nil {
			d.err = err
			d.log.Debug("analysis stopped",
				logging.String("pass", pass.name),
				logging.Line(err.Line),
				logging.Error(err),
			)
			return
		}
	}
	d.log.Debug("analysis complete",
		logging.Int("lines", len(d.lines)),
		logging.Int("tracks", d.MaxTrack()),
	)
}

// IsValid reports whether every analysis pass succeeded. The first call after
// a failure logs the error; later calls stay quiet.
func (d *Document) IsValid() bool {
	if d.err == nil {
		return true
	}
	if !d.errReported {
		d.errReported = true
		logging.WarnWithContext(d.log, "spine data is invalid", "parse_error",
			logging.Line(d.err.Line),
			logging.String("reason", d.err.Message),
			logging.String(logging.FieldErrorHint, "fix the spine structure near the reported line"),
			logging.String(logging.FieldImpact, "analysis results are incomplete"),
		)
	}
	return false
}

// ParseError returns the fatal analysis message, or "" for a valid document.
func (d *Document) ParseError() string {
	if d.err == nil {
		return ""
	}
	return d.err.Message
}

// Err returns the fatal analysis error as an *AnalysisError, or nil.
func (d *Document) Err() error {
	if d.err == nil {
		return nil
	}
	return d.err
}

// RunID identifies the most recent analysis in logs.
func (d *Document) RunID() string { return d.runID }

// Source returns the path a document was read from, if any.
func (d *Document) Source() string { return d.source }

func (d *Document) addToken(tok *Token) TokenID {
	id := TokenID(len(d.tokens))
	tok.id = id
	d.tokens = append(d.tokens, tok)
	return id
}

func (d *Document) tokenAt(ids []TokenID, i int) *Token {
	if i < 0 || i >= len(ids) {
		return nil
	}
	return d.tokens[ids[i]]
}

func (d *Document) tokenList(ids []TokenID) []*Token {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Token, len(ids))
	for i, id := range ids {
		out[i] = d.tokens[id]
	}
	return out
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns line i; negative indexes count from the end. Out of range
// returns nil.
func (d *Document) Line(i int) *Line {
	if i < 0 {
		i += len(d.lines)
	}
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	return d.lines[i]
}

// Lines returns every line in order.
func (d *Document) Lines() []*Line {
	out := make([]*Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Token returns the field on a line, with negative indexes on both axes.
func (d *Document) Token(line, field int) *Token {
	l := d.Line(line)
	if l == nil {
		return nil
	}
	return l.Token(field)
}

// TokenByID returns the token for id, or nil.
func (d *Document) TokenByID(id TokenID) *Token {
	if id < 0 || int(id) >= len(d.tokens) {
		return nil
	}
	return d.tokens[id]
}

// MaxTrack returns the number of primary spines.
func (d *Document) MaxTrack() int { return len(d.trackStarts) - 1 }

// TrackStart returns the exclusive interpretation that starts track. Negative
// tracks count from the last one.
func (d *Document) TrackStart(track int) *Token {
	if track < 0 {
		track += len(d.trackStarts)
	}
	if track <= 0 || track >= len(d.trackStarts) {
		return nil
	}
	id := d.trackStarts[track]
	if id == NoToken {
		return nil
	}
	return d.tokens[id]
}

// TrackEndCount returns the number of terminators recorded for track.
func (d *Document) TrackEndCount(track int) int {
	if track < 0 {
		track += len(d.trackEnds)
	}
	if track <= 0 || track >= len(d.trackEnds) {
		return 0
	}
	return len(d.trackEnds[track])
}

// TrackEnd returns terminator sub of track. Both indexes accept negatives.
func (d *Document) TrackEnd(track, sub int) *Token {
	if track < 0 {
		track += len(d.trackEnds)
	}
	if track <= 0 || track >= len(d.trackEnds) {
		return nil
	}
	ends := d.trackEnds[track]
	if sub < 0 {
		sub += len(ends)
	}
	if sub < 0 || sub >= len(ends) {
		return nil
	}
	return d.tokens[ends[sub]]
}

// SpineStartList returns the start token of every track in order.
func (d *Document) SpineStartList() []*Token {
	var out []*Token
	for track := 1; track < len(d.trackStarts); track++ {
		if tok := d.TrackStart(track); tok != nil {
			out = append(out, tok)
		}
	}
	return out
}

// SpineStartListOfType returns the spine starts whose exclusive
// interpretation is one of types. The "**" prefix is optional.
func (d *Document) SpineStartListOfType(types ...string) []*Token {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		if !strings.HasPrefix(t, "**") {
			t = "**" + t
		}
		want[t] = true
	}
	var out []*Token
	for _, tok := range d.SpineStartList() {
		if want[tok.text] {
			out = append(out, tok)
		}
	}
	return out
}

// Barlines returns the barline lines in order.
func (d *Document) Barlines() []*Line {
	out := make([]*Line, 0, len(d.barlines))
	for _, i := range d.barlines {
		out = append(out, d.lines[i])
	}
	return out
}

// ScoreDuration returns the total duration, or -1 without rhythm analysis.
func (d *Document) ScoreDuration() rational.Rat { return d.scoreDuration }

// TPQ returns the ticks per quarter note needed to represent every line
// duration exactly: the least common multiple of their denominators.
func (d *Document) TPQ() *big.Int {
	if d.tpq == nil {
		durations := make([]rational.Rat, 0, len(d.lines))
		for _, line := range d.lines {
			durations = append(durations, line.duration)
		}
		d.tpq = rational.DenominatorLCM(durations)
	}
	return new(big.Int).Set(d.tpq)
}

// Text returns the current lines joined with newlines.
func (d *Document) Text() string {
	var b strings.Builder
	for _, line := range d.lines {
		b.WriteString(line.text)
		b.WriteByte('\n')
	}
	return b.String()
}
