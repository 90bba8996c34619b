package humdrum

import (
	"regexp"
	"strconv"
	"strings"

	"humspine/internal/rational"
)

// Exclusive interpretations with built-in rhythm handling.
const (
	KernType  = "**kern"
	RecipType = "**recip"
	MensType  = "**mens"
)

var (
	barNumberPattern = regexp.MustCompile(`\d+`)
	barNamePattern   = regexp.MustCompile(`\d+[a-z]?`)
)

// IsNull reports whether the token is a null placeholder: ".", "*" or "!".
func (t *Token) IsNull() bool {
	return t.text == "." || t.text == "*" || t.text == "!"
}

func (t *Token) IsComment() bool        { return strings.HasPrefix(t.text, "!") }
func (t *Token) IsGlobalComment() bool  { return strings.HasPrefix(t.text, "!!") }
func (t *Token) IsLocalComment() bool   { return t.IsComment() && !t.IsGlobalComment() }
func (t *Token) IsInterpretation() bool { return strings.HasPrefix(t.text, "*") }
func (t *Token) IsBarline() bool        { return strings.HasPrefix(t.text, "=") }

// IsData reports whether the token is neither an interpretation, a comment
// nor a barline.
func (t *Token) IsData() bool {
	return !t.IsInterpretation() && !t.IsComment() && !t.IsBarline()
}

func (t *Token) IsNullData() bool    { return t.IsData() && t.IsNull() }
func (t *Token) IsNonNullData() bool { return t.IsData() && !t.IsNull() }

func (t *Token) IsExclusiveInterpretation() bool { return strings.HasPrefix(t.text, "**") }
func (t *Token) IsSplitInterpretation() bool     { return t.text == "*^" }
func (t *Token) IsMergeInterpretation() bool     { return t.text == "*v" }
func (t *Token) IsExchangeInterpretation() bool  { return t.text == "*x" }
func (t *Token) IsAddInterpretation() bool       { return t.text == "*+" }
func (t *Token) IsTerminateInterpretation() bool { return t.text == "*-" }

// IsManipulator reports whether the token changes spine topology. Exclusive
// interpretations count because they start a spine.
func (t *Token) IsManipulator() bool {
	switch t.text {
	case "*^", "*v", "*x", "*+", "*-":
		return true
	}
	return t.IsExclusiveInterpretation()
}

// IsLabel reports whether the token is a section label such as "*>A".
func (t *Token) IsLabel() bool {
	return strings.HasPrefix(t.text, "*>") && !strings.Contains(t.text, "[")
}

// IsTimeSignature reports "*M" followed by a digit and a slash, e.g. "*M3/4".
func (t *Token) IsTimeSignature() bool {
	return len(t.text) > 2 && strings.HasPrefix(t.text, "*M") &&
		t.text[2] >= '0' && t.text[2] <= '9' && strings.Contains(t.text, "/")
}

// IsChord reports a data token with more than one subtoken.
func (t *Token) IsChord() bool {
	return t.IsData() && strings.Contains(t.text, " ")
}

func (t *Token) IsKern() bool { return t.DataType() == KernType }
func (t *Token) IsMens() bool { return t.DataType() == MensType }

// HasRhythm reports whether the token's spine type carries durations.
func (t *Token) HasRhythm() bool {
	switch t.DataType() {
	case KernType, RecipType, MensType:
		return true
	}
	return false
}

// IsRest reports a kern or mens rest. Null data tokens answer for the token
// they resolve to.
func (t *Token) IsRest() bool {
	if !t.IsData() {
		return false
	}
	if t.IsNull() {
		res := t.NullResolution()
		if res == nil || res == t {
			return false
		}
		return res.IsRest()
	}
	if t.IsKern() || t.IsMens() {
		return strings.Contains(t.text, "r")
	}
	return false
}

// IsNote reports a kern data token with a pitch.
func (t *Token) IsNote() bool {
	if !t.IsNonNullData() || !t.IsKern() || t.IsRest() {
		return false
	}
	return strings.ContainsAny(t.text, "abcdefgABCDEFG")
}

// IsSecondaryTiedNote reports a note that continues or ends a tie.
func (t *Token) IsSecondaryTiedNote() bool {
	return t.IsNote() && strings.ContainsAny(t.text, "_]")
}

// IsSustainedNote reports a position where a note is still sounding without
// a new attack: a null token over a note or a secondary tied note.
func (t *Token) IsSustainedNote() bool {
	if t.IsNullData() {
		res := t.NullResolution()
		return res != nil && res != t && res.IsNote()
	}
	return t.IsSecondaryTiedNote()
}

// IsNoteAttack reports a note that starts sounding at this token.
func (t *Token) IsNoteAttack() bool {
	return t.IsNote() && !t.IsSecondaryTiedNote()
}

// IsGrace reports a kern grace note.
func (t *Token) IsGrace() bool {
	return t.IsNonNullData() && t.IsKern() && strings.Contains(t.text, "q")
}

// IsInvisible reports a hidden kern barline or an invisible kern object.
func (t *Token) IsInvisible() bool {
	if !t.IsKern() {
		return false
	}
	if t.IsBarline() {
		return strings.Contains(t.text, "-")
	}
	return t.IsData() && strings.Contains(t.text, "yy")
}

// IsRecipOnly reports a kern data token with a rhythm but no pitch or rest.
func (t *Token) IsRecipOnly() bool {
	if !t.IsNonNullData() || !t.IsKern() {
		return false
	}
	if strings.ContainsAny(t.text, "abcdefgABCDEFGr") {
		return false
	}
	return strings.ContainsAny(t.text, "0123456789")
}

// BarlineNumber returns the measure number of a barline, or -1.
func (t *Token) BarlineNumber() int {
	if !t.IsBarline() {
		return -1
	}
	m := barNumberPattern.FindString(t.text)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return n
}

// BarlineName returns the measure label of a barline, e.g. "12a", or "".
func (t *Token) BarlineName() string {
	if !t.IsBarline() {
		return ""
	}
	return barNamePattern.FindString(t.text)
}

// DotCount returns the augmentation dots on the first subtoken.
func (t *Token) DotCount() int {
	if !t.IsNonNullData() {
		return 0
	}
	return strings.Count(firstSubtoken(t.text), ".")
}

// DurationNoDots returns the duration without augmentation dots, or -1 for
// tokens without rhythm.
func (t *Token) DurationNoDots() rational.Rat {
	if !t.IsNonNullData() || !t.HasRhythm() {
		return rational.MinusOne
	}
	if t.IsMens() {
		return MensToDuration(strings.ReplaceAll(t.text, "p", ""), t.doc.opts.recipScale)
	}
	return RecipToDurationNoDots(t.text, t.doc.opts.recipScale)
}

// analyzeDuration computes the token's own duration from its text.
func (t *Token) analyzeDuration() rational.Rat {
	if t.IsNull() || !t.IsData() {
		return rational.MinusOne
	}
	switch t.DataType() {
	case KernType, RecipType:
		return RecipToDuration(t.text, t.doc.opts.recipScale)
	case MensType:
		return MensToDuration(t.text, t.doc.opts.recipScale)
	}
	return rational.MinusOne
}
