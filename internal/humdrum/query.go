package humdrum

// SequenceOption filters TrackSequence output.
type SequenceOption uint

const (
	// OptPrimary keeps only the first sub-spine of the track on each line.
	OptPrimary SequenceOption = 1 << iota
	// OptNoEmpty skips lines where every token of the track is null.
	OptNoEmpty
	OptNoNull
	OptNoInterp
	OptNoManip
	OptNoComment
	OptNoGlobal
	OptNoRest
	OptNoTie

	// OptData keeps data, barlines and plain interpretations.
	OptData = OptNoManip | OptNoComment | OptNoGlobal
	// OptAttacks keeps the tokens where notes begin.
	OptAttacks = OptData | OptNoRest | OptNoTie | OptNoNull
)

// TrackSequence returns, line by line, the tokens of track that pass opts.
// Global lines appear as a single token unless OptNoGlobal is set. Lines
// with nothing left are omitted.
func (d *Document) TrackSequence(track int, opts SequenceOption) [][]*Token {
	has := func(o SequenceOption) bool { return opts&o == o }
	var out [][]*Token
	for _, line := range d.lines {
		if line.IsEmpty() {
			continue
		}
		if !has(OptNoGlobal) && line.IsGlobalComment() {
			if tok := line.Token(0); tok != nil {
				out = append(out, []*Token{tok})
			}
			continue
		}
		tokens := line.Tokens()
		if has(OptNoEmpty) && allTrackTokensNull(tokens, track) {
			continue
		}
		var kept []*Token
		found := false
		for _, tok := range tokens {
			if tok.track != track {
				continue
			}
			if has(OptPrimary) && found {
				continue
			}
			found = true
			switch {
			case has(OptNoInterp) && tok.IsInterpretation(),
				has(OptNoManip) && tok.IsManipulator(),
				has(OptNoNull) && tok.IsNull(),
				has(OptNoComment) && tok.IsComment(),
				has(OptNoRest) && tok.IsRest(),
				has(OptNoTie) && tok.IsSecondaryTiedNote():
				continue
			}
			kept = append(kept, tok)
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// PrimaryTrackSequence is TrackSequence restricted to the first sub-spine.
func (d *Document) PrimaryTrackSequence(track int, opts SequenceOption) []*Token {
	rows := d.TrackSequence(track, opts|OptPrimary)
	out := make([]*Token, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[0])
	}
	return out
}

func allTrackTokensNull(tokens []*Token, track int) bool {
	for _, tok := range tokens {
		if tok.track == track && !tok.IsNull() {
			return false
		}
	}
	return true
}
