package humdrum

import (
	"strconv"
	"strings"

	"humspine/internal/annotation"
	"humspine/internal/rational"
)

// TokenID addresses a Token in its Document's arena.
type TokenID int

// NoToken is the absent TokenID.
const NoToken TokenID = -1

// Token is one field of one line.
type Token struct {
	doc       *Document
	id        TokenID
	text      string
	line      int
	field     int
	track     int
	subtrack  int
	spineInfo string

	duration rational.Rat

	next        []TokenID
	prev        []TokenID
	nextNonNull []TokenID
	prevNonNull []TokenID

	nullResolution TokenID
	strand         int
	rhythmGen      int

	linkedParams []TokenID
	params       *ParamSet

	subtokens   []string
	annotations annotation.Store
}

func newToken(doc *Document, text string, line, field int) *Token {
	return &Token{
		doc:            doc,
		id:             NoToken,
		text:           text,
		line:           line,
		field:          field,
		duration:       rational.MinusOne,
		nullResolution: NoToken,
		strand:         -1,
	}
}

// ID returns the arena index of the token.
func (t *Token) ID() TokenID { return t.id }

// Text returns the raw field text.
func (t *Token) Text() string { return t.text }

func (t *Token) String() string { return t.text }

// SetText replaces the text. Cached subtokens, the analyzed duration, null
// resolution and the owning line's text are refreshed. Links are kept.
func (t *Token) SetText(text string) {
	if text == t.text {
		return
	}
	t.text = text
	t.subtokens = nil
	if t.params != nil || isLocalLayoutText(text) {
		t.params = nil
		if isLocalLayoutText(text) {
			if set, ok := ParseParamSet(text); ok {
				set.Origin = t.id
				t.params = set
			}
		}
	}
	t.duration = rational.MinusOne
	if t.doc != nil {
		t.doc.nullsResolved = false
	}
	if t.doc != nil && t.doc.structureDone {
		t.duration = t.analyzeDuration()
	}
	if t.doc != nil && t.line >= 0 && t.line < len(t.doc.lines) {
		t.doc.lines[t.line].rebuildText()
	}
}

// Document returns the owning document.
func (t *Token) Document() *Document { return t.doc }

// Line returns the owning line.
func (t *Token) Line() *Line { return t.doc.lines[t.line] }

// LineIndex returns the 0-based index of the owning line.
func (t *Token) LineIndex() int { return t.line }

// LineNumber returns the 1-based line number.
func (t *Token) LineNumber() int { return t.line + 1 }

// FieldIndex returns the 0-based field position on the line.
func (t *Token) FieldIndex() int { return t.field }

// Track returns the primary spine number, starting at 1. Global tokens are 0.
func (t *Token) Track() int { return t.track }

// Subtrack returns the position among the track's tokens on this line,
// starting at 1, or 0 when the track has a single token on the line.
func (t *Token) Subtrack() int { return t.subtrack }

// SpineInfo returns the split ancestry of the token's spine, e.g. "(1)a".
func (t *Token) SpineInfo() string { return t.spineInfo }

// TrackString returns "track" or "track.subtrack".
func (t *Token) TrackString() string {
	if t.subtrack == 0 {
		return strconv.Itoa(t.track)
	}
	return strconv.Itoa(t.track) + "." + strconv.Itoa(t.subtrack)
}

// DataType returns the exclusive interpretation that starts the token's track.
func (t *Token) DataType() string {
	if t.doc == nil {
		return ""
	}
	start := t.doc.TrackStart(t.track)
	if start == nil {
		return ""
	}
	return start.text
}

// Duration returns the analyzed duration, or -1 for tokens without rhythm.
func (t *Token) Duration() rational.Rat { return t.duration }

// DurationFromStart returns the owning line's offset from the start of the
// score.
func (t *Token) DurationFromStart() rational.Rat {
	return t.doc.lines[t.line].durationFromStart
}

// DurationFromBarline returns the owning line's offset from the previous
// barline.
func (t *Token) DurationFromBarline() rational.Rat {
	return t.doc.lines[t.line].durationFromBarline
}

// DurationToBarline returns the time from the owning line to the next
// barline.
func (t *Token) DurationToBarline() rational.Rat {
	return t.doc.lines[t.line].durationToBarline
}

// NextTokenCount and PreviousTokenCount return the number of links.
func (t *Token) NextTokenCount() int     { return len(t.next) }
func (t *Token) PreviousTokenCount() int { return len(t.prev) }

// NextToken returns the i-th forward link, or nil.
func (t *Token) NextToken(i int) *Token { return t.doc.tokenAt(t.next, i) }

// PreviousToken returns the i-th backward link, or nil.
func (t *Token) PreviousToken(i int) *Token { return t.doc.tokenAt(t.prev, i) }

// NextTokens returns the forward links.
func (t *Token) NextTokens() []*Token { return t.doc.tokenList(t.next) }

// PreviousTokens returns the backward links.
func (t *Token) PreviousTokens() []*Token { return t.doc.tokenList(t.prev) }

// NextNonNullDataTokens returns the nearest non-null data token ahead on each
// forward link. Past a split only the first sub-spine is followed.
func (t *Token) NextNonNullDataTokens() []*Token { return t.doc.tokenList(t.nextNonNull) }

// PreviousNonNullDataTokens returns the nearest non-null data token behind on
// each backward link. Past a merge only the leftmost sub-spine is followed.
func (t *Token) PreviousNonNullDataTokens() []*Token { return t.doc.tokenList(t.prevNonNull) }

// NullResolution returns the non-null data token a null data token stands
// for. Non-null data tokens resolve to themselves; other tokens to nil.
func (t *Token) NullResolution() *Token {
	if !t.doc.nullsResolved {
		t.doc.ResolveNullTokens()
	}
	if t.nullResolution == NoToken {
		return nil
	}
	return t.doc.tokens[t.nullResolution]
}

// StrandIndex returns the index of the token's strand in Document.Strands,
// or -1 before strand analysis.
func (t *Token) StrandIndex() int { return t.strand }

// NextFieldToken returns the token to the right on the same line.
func (t *Token) NextFieldToken() *Token {
	return t.doc.lines[t.line].Token(t.field + 1)
}

// PreviousFieldToken returns the token to the left on the same line.
func (t *Token) PreviousFieldToken() *Token {
	if t.field == 0 {
		return nil
	}
	return t.doc.lines[t.line].Token(t.field - 1)
}

// Subtokens splits the text on spaces.
func (t *Token) Subtokens() []string {
	if t.subtokens == nil {
		t.subtokens = strings.Split(t.text, " ")
	}
	return t.subtokens
}

// SubtokenCount returns the number of space-separated subtokens.
func (t *Token) SubtokenCount() int { return len(t.Subtokens()) }

// Subtoken returns the i-th subtoken, or "" when out of range.
func (t *Token) Subtoken(i int) string {
	subs := t.Subtokens()
	if i < 0 || i >= len(subs) {
		return ""
	}
	return subs[i]
}

// ParameterSet returns the set parsed from a "!LO:" comment or "!!LO:" line.
func (t *Token) ParameterSet() *ParamSet { return t.params }

// LinkedParameterSets returns the layout parameters that apply to the token,
// nearest first.
func (t *Token) LinkedParameterSets() []*ParamSet {
	if len(t.linkedParams) == 0 {
		return nil
	}
	out := make([]*ParamSet, 0, len(t.linkedParams))
	for _, id := range t.linkedParams {
		if set := t.doc.tokens[id].params; set != nil {
			out = append(out, set)
		}
	}
	return out
}

// LayoutParameter returns the first linked value of key in the category ns2.
func (t *Token) LayoutParameter(ns2, key string) (string, bool) {
	for _, set := range t.LinkedParameterSets() {
		if set.Namespace2 != ns2 {
			continue
		}
		if v, ok := set.Value(key); ok {
			return v, true
		}
	}
	return "", false
}

func (t *Token) linkParameterSet(id TokenID) {
	for _, existing := range t.linkedParams {
		if existing == id {
			return
		}
	}
	t.linkedParams = append(t.linkedParams, id)
	set := t.doc.tokens[id].params
	if set == nil {
		return
	}
	for _, p := range set.Params {
		k := LayoutParameterKey(set.Namespace1, set.Namespace2, p.Name)
		if !t.annotations.Has(k.Key) {
			annotation.PutWithOrigin(&t.annotations, k, p.Value, int(id))
		}
	}
}

// LayoutParameterKey addresses a layout parameter value copied into the
// annotations of the token it applies to, such as LO:N:vis.
func LayoutParameterKey(ns1, ns2, name string) annotation.TypedKey[string] {
	return annotation.NewTypedKey[string](ns1, ns2, name)
}

// Annotations returns the token's side-table.
func (t *Token) Annotations() *annotation.Store { return &t.annotations }

func (t *Token) addNext(id TokenID) { t.next = append(t.next, id) }
func (t *Token) addPrev(id TokenID) { t.prev = append(t.prev, id) }
