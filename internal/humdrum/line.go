package humdrum

import (
	"strings"

	"humspine/internal/annotation"
	"humspine/internal/rational"
)

// Line is one line of text split into tokens.
type Line struct {
	doc    *Document
	index  int
	text   string
	tokens []TokenID
	// tabs[i] is the number of tabs after token i; the last entry is 0.
	tabs []int

	duration            rational.Rat
	durationFromStart   rational.Rat
	durationFromBarline rational.Rat
	durationToBarline   rational.Rat

	annotations annotation.Store
}

func newLine(doc *Document, index int, text string) *Line {
	line := &Line{doc: doc, index: index, text: text}
	line.resetTiming()
	return line
}

func (l *Line) resetTiming() {
	l.duration = rational.MinusOne
	l.durationFromStart = rational.MinusOne
	l.durationFromBarline = rational.MinusOne
	l.durationToBarline = rational.MinusOne
}

// splitFields returns the fields of a spined line and the tab run that
// follows each one. Repeated tabs collapse into one separator.
func splitFields(text string) ([]string, []int) {
	if text == "" || strings.HasPrefix(text, "!!") {
		return []string{text}, []int{0}
	}
	var fields []string
	var tabs []int
	i := 0
	for i < len(text) && text[i] == '\t' {
		i++
	}
	for i < len(text) {
		start := i
		for i < len(text) && text[i] != '\t' {
			i++
		}
		fields = append(fields, text[start:i])
		run := 0
		for i < len(text) && text[i] == '\t' {
			run++
			i++
		}
		tabs = append(tabs, run)
	}
	if len(fields) == 0 {
		return []string{""}, []int{0}
	}
	return fields, tabs
}

// tokenize creates the line's tokens in the document arena.
func (l *Line) tokenize() {
	fields, tabs := splitFields(l.text)
	l.tokens = l.tokens[:0]
	l.tabs = tabs
	for j, field := range fields {
		tok := newToken(l.doc, field, l.index, j)
		if isLocalLayoutText(field) || (j == 0 && isGlobalLayoutText(field)) {
			if set, ok := ParseParamSet(field); ok {
				tok.params = set
			}
		}
		id := l.doc.addToken(tok)
		if tok.params != nil {
			tok.params.Origin = id
		}
		l.tokens = append(l.tokens, id)
	}
}

// rebuildText joins the tokens back together with their original tab runs.
func (l *Line) rebuildText() {
	if !l.HasSpines() && len(l.tokens) == 1 {
		l.text = l.doc.tokens[l.tokens[0]].text
		return
	}
	var b strings.Builder
	for i, id := range l.tokens {
		b.WriteString(l.doc.tokens[id].text)
		if i == len(l.tokens)-1 {
			break
		}
		n := 1
		if i < len(l.tabs) && l.tabs[i] > 0 {
			n = l.tabs[i]
		}
		b.WriteString(strings.Repeat("\t", n))
	}
	l.text = b.String()
}

// Index returns the 0-based line index.
func (l *Line) Index() int { return l.index }

// LineNumber returns the 1-based line number.
func (l *Line) LineNumber() int { return l.index + 1 }

// Text returns the line text.
func (l *Line) Text() string { return l.text }

func (l *Line) String() string { return l.text }

// TokenCount returns the number of fields.
func (l *Line) TokenCount() int { return len(l.tokens) }

// Token returns field i; negative indexes count from the end. Out of range
// returns nil.
func (l *Line) Token(i int) *Token {
	if i < 0 {
		i += len(l.tokens)
	}
	if i < 0 || i >= len(l.tokens) {
		return nil
	}
	return l.doc.tokens[l.tokens[i]]
}

// Tokens returns the fields in order.
func (l *Line) Tokens() []*Token { return l.doc.tokenList(l.tokens) }

// TabCount returns the number of tabs after field i.
func (l *Line) TabCount(i int) int {
	if i < 0 || i >= len(l.tabs) {
		return 0
	}
	return l.tabs[i]
}

// Duration returns the time until the next line.
func (l *Line) Duration() rational.Rat { return l.duration }

// DurationFromStart returns the offset from the start of the score.
func (l *Line) DurationFromStart() rational.Rat { return l.durationFromStart }

// DurationFromBarline returns the offset from the previous barline.
func (l *Line) DurationFromBarline() rational.Rat { return l.durationFromBarline }

// DurationToBarline returns the time remaining until the next barline.
func (l *Line) DurationToBarline() rational.Rat { return l.durationToBarline }

// Beat returns the 1-based beat position in units of beatUnit, or 0 when
// beatUnit is zero.
func (l *Line) Beat(beatUnit rational.Rat) rational.Rat {
	if beatUnit.IsZero() {
		return rational.Zero
	}
	return l.durationFromBarline.Div(beatUnit).Add(rational.One)
}

// Annotations returns the line's side-table.
func (l *Line) Annotations() *annotation.Store { return &l.annotations }

// ParameterSet returns the set of a "!!LO:" line.
func (l *Line) ParameterSet() *ParamSet {
	if l.HasSpines() || len(l.tokens) == 0 {
		return nil
	}
	return l.doc.tokens[l.tokens[0]].params
}
