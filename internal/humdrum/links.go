package humdrum

// analyzeLinks connects the tokens of each pair of adjacent spined lines.
func (d *Document) analyzeLinks() *AnalysisError {
	var prev *Line
	for _, line := range d.lines {
		if !line.HasSpines() {
			continue
		}
		if prev != nil {
			if err := d.stitchLines(prev, line); err != nil {
				return err
			}
		}
		prev = line
	}
	return nil
}

func link(from, to *Token) {
	from.addNext(to.id)
	to.addPrev(from.id)
}

// stitchLines links prev to next following the manipulators on prev.
func (d *Document) stitchLines(prev, next *Line) *AnalysisError {
	pt := prev.Tokens()
	nt := next.Tokens()

	if !prev.IsInterpretation() && !next.IsInterpretation() {
		if len(pt) != len(nt) {
			return newStructureError(next.LineNumber(),
				"lines %d and %d are not the same length\nline %d: %s\nline %d: %s",
				prev.LineNumber(), next.LineNumber(),
				prev.LineNumber(), prev.text, next.LineNumber(), next.text)
		}
		for i := range pt {
			link(pt[i], nt[i])
		}
		return nil
	}

	at := func(j int) *Token {
		if j < len(nt) {
			return nt[j]
		}
		return nil
	}
	missing := func(i int) *AnalysisError {
		return newStructureError(next.LineNumber(),
			"no token on line %d to link field %d of line %d to",
			next.LineNumber(), i+1, prev.LineNumber())
	}

	idx := 0
	mergeCount := 0
	flushMerge := func(end int) *AnalysisError {
		if mergeCount == 1 {
			return newStructureError(prev.LineNumber(),
				"single spine merge indicator '*v' on line %d: %s", prev.LineNumber(), prev.text)
		}
		target := at(idx)
		if target == nil {
			return missing(end - 1)
		}
		for k := end - mergeCount; k < end; k++ {
			link(pt[k], target)
		}
		idx++
		mergeCount = 0
		return nil
	}

	for i := 0; i < len(pt); i++ {
		tok := pt[i]
		if tok.IsMergeInterpretation() {
			mergeCount++
			continue
		}
		if mergeCount > 0 {
			if err := flushMerge(i); err != nil {
				return err
			}
		}

		switch {
		case tok.IsSplitInterpretation():
			a, b := at(idx), at(idx+1)
			if a == nil || b == nil {
				return missing(i)
			}
			link(tok, a)
			link(tok, b)
			idx += 2
		case tok.IsExchangeInterpretation():
			if i+1 >= len(pt) || !pt[i+1].IsExchangeInterpretation() {
				return newStructureError(prev.LineNumber(),
					"*x is all alone on line %d: %s", prev.LineNumber(), prev.text)
			}
			a, b := at(idx), at(idx+1)
			if a == nil || b == nil {
				return missing(i)
			}
			link(tok, b)
			link(pt[i+1], a)
			idx += 2
			i++
		case tok.IsTerminateInterpretation():
			// no successor
		case tok.IsAddInterpretation():
			a, added := at(idx), at(idx+1)
			if added == nil || !added.IsExclusiveInterpretation() {
				return newStructureError(next.LineNumber(),
					"expecting exclusive interpretation on line %d at field %d after '*+' on line %d",
					next.LineNumber(), idx+2, prev.LineNumber())
			}
			if a == nil {
				return missing(i)
			}
			link(tok, a)
			idx += 2
		default:
			a := at(idx)
			if a == nil {
				return missing(i)
			}
			link(tok, a)
			idx++
		}
	}
	if mergeCount > 0 {
		if err := flushMerge(len(pt)); err != nil {
			return err
		}
	}

	if idx != len(nt) {
		return newStructureError(next.LineNumber(),
			"cannot stitch lines together due to alignment problem\nline %d: %s\nline %d: %s",
			prev.LineNumber(), prev.text, next.LineNumber(), next.text)
	}
	return nil
}
