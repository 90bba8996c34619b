package humdrum

import "sort"

// Strand is a maximal run of tokens joined by first forward links inside one
// sub-spine, from a spine start or split branch to a terminator or merge.
type Strand struct {
	Start TokenID
	End   TokenID
	Track int
}

// analyzeStrands discovers strands per track, then resolves null tokens and
// attaches local layout parameters.
func (d *Document) analyzeStrands() *AnalysisError {
	d.strands = nil
	d.strandsByTrack = make([][]int, len(d.trackStarts))
	for track := 1; track < len(d.trackStarts); track++ {
		found := d.spineStrands(d.trackStarts[track])
		sort.SliceStable(found, func(i, j int) bool {
			a, b := d.tokens[found[i].Start], d.tokens[found[j].Start]
			if a.line != b.line {
				return a.line < b.line
			}
			return a.field < b.field
		})
		for _, s := range found {
			s.Track = track
			d.strandsByTrack[track] = append(d.strandsByTrack[track], len(d.strands))
			d.strands = append(d.strands, s)
		}
	}
	d.assignStrandsToTokens()
	d.strandsDone = true
	d.nullsResolved = false
	d.ResolveNullTokens()
	d.analyzeLocalParameters()
	return nil
}

// spineStrands walks one spine from its start token. Split branches are
// pushed on a stack and walked as strands of their own.
func (d *Document) spineStrands(start TokenID) []Strand {
	var out []Strand
	stack := []TokenID{start}
	for len(stack) > 0 {
		first := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		strand := Strand{Start: first, End: first}
		for tok := d.tokens[first]; tok != nil; tok = tok.NextToken(0) {
			strand.End = tok.id
			if tok.IsMergeInterpretation() {
				// Later merges of a run end here; the leftmost carries on.
				if left := tok.PreviousFieldToken(); left != nil && left.IsMergeInterpretation() {
					break
				}
			}
			if tok.IsTerminateInterpretation() {
				break
			}
			for j := len(tok.next) - 1; j >= 1; j-- {
				stack = append(stack, tok.next[j])
			}
		}
		out = append(out, strand)
	}
	return out
}

func (d *Document) walkStrand(s Strand, fn func(*Token)) {
	for tok := d.tokens[s.Start]; tok != nil; tok = tok.NextToken(0) {
		fn(tok)
		if tok.id == s.End {
			return
		}
	}
}

func (d *Document) assignStrandsToTokens() {
	for _, tok := range d.tokens {
		tok.strand = -1
	}
	for i, s := range d.strands {
		d.walkStrand(s, func(tok *Token) { tok.strand = i })
	}
}

// ResolveNullTokens points every null data token at the non-null data token
// it repeats. The result is memoized until the document changes.
func (d *Document) ResolveNullTokens() {
	if d.nullsResolved || !d.strandsDone {
		return
	}
	d.nullsResolved = true
	for _, tok := range d.tokens {
		tok.nullResolution = NoToken
	}
	for _, s := range d.strands {
		data := NoToken
		d.walkStrand(s, func(tok *Token) {
			if !tok.IsData() {
				return
			}
			if !tok.IsNull() {
				data = tok.id
				tok.nullResolution = tok.id
				return
			}
			if data == NoToken {
				data = d.precedingNonNullData(tok)
				if data == NoToken {
					data = tok.id
				}
			}
			tok.nullResolution = data
		})
	}
}

// precedingNonNullData follows first backward links out of a strand to the
// nearest non-null data token.
func (d *Document) precedingNonNullData(tok *Token) TokenID {
	for p := tok.PreviousToken(0); p != nil; p = p.PreviousToken(0) {
		if p.IsNonNullData() {
			return p.id
		}
	}
	return NoToken
}

// analyzeLocalParameters walks each strand backward and links "!LO:" comments
// to the next token below them that can carry layout.
func (d *Document) analyzeLocalParameters() {
	for _, s := range d.strands {
		var target *Token
		for tok := d.tokens[s.End]; tok != nil; tok = tok.PreviousToken(0) {
			switch {
			case tok.IsData(), tok.IsBarline():
				target = tok
			case tok.IsInterpretation() && tok.text != "*" && !tok.IsManipulator():
				target = tok
			case tok.IsLocalComment() && tok.params != nil:
				if target != nil {
					target.linkParameterSet(tok.id)
				}
			}
			if tok.id == s.Start {
				break
			}
		}
	}
}

// Strands returns every strand, grouped by track and ordered by start
// position within each track.
func (d *Document) Strands() []Strand {
	out := make([]Strand, len(d.strands))
	copy(out, d.strands)
	return out
}

// StrandCount returns the number of strands.
func (d *Document) StrandCount() int { return len(d.strands) }

// StrandsForTrack returns the strands that originate from track.
func (d *Document) StrandsForTrack(track int) []Strand {
	if track <= 0 || track >= len(d.strandsByTrack) {
		return nil
	}
	out := make([]Strand, 0, len(d.strandsByTrack[track]))
	for _, i := range d.strandsByTrack[track] {
		out = append(out, d.strands[i])
	}
	return out
}

// StrandStart returns the first token of strand i.
func (d *Document) StrandStart(i int) *Token {
	if i < 0 || i >= len(d.strands) {
		return nil
	}
	return d.tokens[d.strands[i].Start]
}

// StrandEnd returns the last token of strand i.
func (d *Document) StrandEnd(i int) *Token {
	if i < 0 || i >= len(d.strands) {
		return nil
	}
	return d.tokens[d.strands[i].End]
}
