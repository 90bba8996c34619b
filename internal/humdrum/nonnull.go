package humdrum

import "humspine/internal/annotation"

const autoNamespace = "auto"

// NextNonNullKey is where each token's next non-null data tokens are stashed
// in its annotation store.
var NextNonNullKey = annotation.NewTypedKey[[]TokenID](autoNamespace, "link", "nextNonNull")

// analyzeNonNullDataTokens gives every spined token the nearest non-null data
// token behind and ahead of it on each of its links. Each token hands one
// candidate on to its neighbours: itself when it is non-null data, otherwise
// the candidate it got through its first link. A merge therefore collects one
// candidate per merging sub-spine but passes on only the leftmost, and a
// split likewise on the way back, so the lists never grow with file length.
func (d *Document) analyzeNonNullDataTokens() *AnalysisError {
	carry := make([]TokenID, len(d.tokens))
	seen := make([]TokenID, len(d.tokens))

	resetSeen := func() {
		for i := range seen {
			seen[i] = NoToken
		}
	}
	// collect gathers the distinct candidates behind links, stamping each
	// with tok so repeats on the same token are skipped in constant time.
	collect := func(tok *Token, links []TokenID) []TokenID {
		var out []TokenID
		for _, id := range links {
			c := carry[id]
			if c == NoToken || seen[c] == tok.id {
				continue
			}
			seen[c] = tok.id
			out = append(out, c)
		}
		return out
	}
	pass := func(tok *Token, links []TokenID) {
		switch {
		case tok.IsNonNullData():
			carry[tok.id] = tok.id
		case len(links) > 0:
			carry[tok.id] = carry[links[0]]
		default:
			carry[tok.id] = NoToken
		}
	}

	resetSeen()
	for _, line := range d.lines {
		for _, id := range line.tokens {
			tok := d.tokens[id]
			tok.prevNonNull = collect(tok, tok.prev)
			pass(tok, tok.prev)
		}
	}

	resetSeen()
	for i := len(d.lines) - 1; i >= 0; i-- {
		for _, id := range d.lines[i].tokens {
			tok := d.tokens[id]
			tok.nextNonNull = collect(tok, tok.next)
			pass(tok, tok.next)
			tok.annotations.Delete(NextNonNullKey.Key)
			if len(tok.nextNonNull) > 0 {
				annotation.Put(&tok.annotations, NextNonNullKey, append([]TokenID(nil), tok.nextNonNull...))
			}
		}
	}
	return nil
}
