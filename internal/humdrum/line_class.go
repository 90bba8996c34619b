package humdrum

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind classifies a line by its leading characters.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineGlobalComment
	LineReference
	LineLocalComment
	LineInterpretation
	LineBarline
	LineData
)

func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineGlobalComment:
		return "global-comment"
	case LineReference:
		return "reference"
	case LineLocalComment:
		return "local-comment"
	case LineInterpretation:
		return "interpretation"
	case LineBarline:
		return "barline"
	case LineData:
		return "data"
	default:
		return "unknown"
	}
}

var measureNumberPattern = regexp.MustCompile(`=(\d+)`)

// Kind returns the line classification.
func (l *Line) Kind() LineKind {
	switch {
	case l.IsEmpty():
		return LineEmpty
	case l.IsReference():
		return LineReference
	case l.IsGlobalComment():
		return LineGlobalComment
	case l.IsLocalComment():
		return LineLocalComment
	case l.IsInterpretation():
		return LineInterpretation
	case l.IsBarline():
		return LineBarline
	default:
		return LineData
	}
}

func (l *Line) IsEmpty() bool            { return l.text == "" }
func (l *Line) IsComment() bool          { return strings.HasPrefix(l.text, "!") }
func (l *Line) IsGlobalComment() bool    { return strings.HasPrefix(l.text, "!!") }
func (l *Line) IsLocalComment() bool     { return l.IsComment() && !l.IsGlobalComment() }
func (l *Line) IsUniversalComment() bool { return strings.HasPrefix(l.text, "!!!!") }
func (l *Line) IsInterpretation() bool   { return strings.HasPrefix(l.text, "*") }
func (l *Line) IsBarline() bool          { return strings.HasPrefix(l.text, "=") }

// IsData reports a line of data tokens.
func (l *Line) IsData() bool {
	return !l.IsEmpty() && !l.IsComment() && !l.IsInterpretation() && !l.IsBarline()
}

// HasSpines reports whether the line is split into one token per spine.
func (l *Line) HasSpines() bool {
	return !l.IsEmpty() && !l.IsGlobalComment()
}

// IsGlobalReference reports a "!!!KEY: value" record.
func (l *Line) IsGlobalReference() bool {
	if !strings.HasPrefix(l.text, "!!!") || strings.HasPrefix(l.text, "!!!!") {
		return false
	}
	return isReferenceBody(l.text[3:])
}

// IsUniversalReference reports a "!!!!KEY: value" record.
func (l *Line) IsUniversalReference() bool {
	if !strings.HasPrefix(l.text, "!!!!") || strings.HasPrefix(l.text, "!!!!!") {
		return false
	}
	return isReferenceBody(l.text[4:])
}

func (l *Line) IsReference() bool { return l.IsGlobalReference() || l.IsUniversalReference() }

// isReferenceBody requires at least two characters, a colon, and a key
// without spaces or tabs.
func isReferenceBody(body string) bool {
	if len(body) < 2 {
		return false
	}
	key, _, ok := strings.Cut(body, ":")
	if !ok {
		return false
	}
	return !strings.ContainsAny(key, " \t")
}

// ReferenceKey returns KEY for a reference record, or "".
func (l *Line) ReferenceKey() string {
	body, ok := l.referenceBody()
	if !ok {
		return ""
	}
	key, _, _ := strings.Cut(body, ":")
	return strings.TrimSpace(key)
}

// ReferenceValue returns the value of a reference record, or "".
func (l *Line) ReferenceValue() string {
	body, ok := l.referenceBody()
	if !ok {
		return ""
	}
	_, value, _ := strings.Cut(body, ":")
	return strings.TrimSpace(value)
}

func (l *Line) referenceBody() (string, bool) {
	switch {
	case l.IsGlobalReference():
		return l.text[3:], true
	case l.IsUniversalReference():
		return l.text[4:], true
	}
	return "", false
}

// IsSignifier reports a "!!!RDF**type: ..." record.
func (l *Line) IsSignifier() bool {
	return len(l.text) >= 9 && strings.HasPrefix(l.text, "!!!RDF**")
}

// IsExclusiveInterpretation reports a line with at least one "**" token.
func (l *Line) IsExclusiveInterpretation() bool {
	if !l.IsInterpretation() {
		return false
	}
	for _, tok := range l.Tokens() {
		if tok.IsExclusiveInterpretation() {
			return true
		}
	}
	return false
}

// IsManipulator reports an interpretation line that changes spine topology.
func (l *Line) IsManipulator() bool {
	if !l.IsInterpretation() {
		return false
	}
	for _, tok := range l.Tokens() {
		if tok.IsManipulator() {
			return true
		}
	}
	return false
}

// IsTerminator reports a line on which every spine ends.
func (l *Line) IsTerminator() bool {
	if !l.IsInterpretation() || len(l.tokens) == 0 {
		return false
	}
	for _, tok := range l.Tokens() {
		if !tok.IsTerminateInterpretation() {
			return false
		}
	}
	return true
}

// IsAllNull reports a spined line whose tokens are all null.
func (l *Line) IsAllNull() bool {
	if !l.HasSpines() {
		return false
	}
	for _, tok := range l.Tokens() {
		if !tok.IsNull() {
			return false
		}
	}
	return true
}

// IsAllRhythmicNull reports a spined line whose rhythmic tokens are all null.
// A line without rhythmic tokens qualifies.
func (l *Line) IsAllRhythmicNull() bool {
	if !l.HasSpines() {
		return false
	}
	for _, tok := range l.Tokens() {
		if tok.HasRhythm() && !tok.IsNull() {
			return false
		}
	}
	return true
}

// BarNumber returns the measure number of a barline, or -1.
func (l *Line) BarNumber() int {
	if !l.IsBarline() {
		return -1
	}
	m := measureNumberPattern.FindStringSubmatch(l.text)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}
