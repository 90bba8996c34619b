package humdrum

import (
	"fmt"
	"strings"

	"humspine/internal/rational"
)

// InsertLine inserts text as line index and reanalyzes the document. index
// may equal LineCount to append; anything beyond panics.
func (d *Document) InsertLine(index int, text string) *Line {
	if index < 0 || index > len(d.lines) {
		panic(fmt.Sprintf("humdrum: cannot insert line %d into a document of %d lines", index, len(d.lines)))
	}
	line := newLine(d, index, text)
	d.lines = append(d.lines, nil)
	copy(d.lines[index+1:], d.lines[index:])
	d.lines[index] = line
	d.rebuild()
	return line
}

// AppendLine adds text as the last line and reanalyzes the document.
func (d *Document) AppendLine(text string) *Line {
	return d.InsertLine(len(d.lines), text)
}

// InsertNullDataLine adds a line of null data tokens at timestamp, right
// after the last data line that starts earlier. An existing data line at
// timestamp is returned as is. It returns nil when no data line precedes
// timestamp or rhythm has not been analyzed.
func (d *Document) InsertNullDataLine(timestamp rational.Rat) *Line {
	if !d.rhythmDone {
		return nil
	}
	before := -1
	for i, line := range d.lines {
		if !line.IsData() {
			continue
		}
		cmp := line.durationFromStart.Cmp(timestamp)
		if cmp == 0 {
			return line
		}
		if cmp > 0 {
			break
		}
		before = i
	}
	if before < 0 {
		return nil
	}
	prev := d.lines[before]
	line := d.insertNullLine(before+1, ".")
	delta := timestamp.Sub(prev.durationFromStart)
	line.durationFromStart = prev.durationFromStart.Add(delta)
	line.durationFromBarline = prev.durationFromBarline.Add(delta)
	line.durationToBarline = prev.durationToBarline.Sub(delta)
	line.duration = prev.duration.Sub(delta)
	prev.duration = delta
	return line
}

// InsertNullInterpretationLine adds a line of null interpretations at
// timestamp, after other interpretations at that time but above any local
// comments attached to the data line there. It returns nil when no data
// line is at or before timestamp.
func (d *Document) InsertNullInterpretationLine(timestamp rational.Rat) *Line {
	if !d.rhythmDone {
		return nil
	}
	data := -1
	for i, line := range d.lines {
		if !line.IsData() {
			continue
		}
		cmp := line.durationFromStart.Cmp(timestamp)
		if cmp > 0 {
			break
		}
		data = i
		if cmp == 0 {
			break
		}
	}
	if data < 0 {
		return nil
	}
	target := data
	for i := data - 1; i > 0; i-- {
		line := d.lines[i]
		if !line.HasSpines() {
			continue
		}
		if !line.IsLocalComment() {
			break
		}
		target = i
	}
	return d.insertTimedInterpretation(target, d.lines[data])
}

// InsertNullInterpretationLineAbove adds a line of null interpretations
// above every other spined line at timestamp. It returns nil when no line is
// at or before timestamp.
func (d *Document) InsertNullInterpretationLineAbove(timestamp rational.Rat) *Line {
	if !d.rhythmDone {
		return nil
	}
	found := -1
	for i, line := range d.lines {
		if !line.HasSpines() || line.IsExclusiveInterpretation() {
			continue
		}
		cmp := line.durationFromStart.Cmp(timestamp)
		if cmp > 0 {
			break
		}
		found = i
		if cmp == 0 {
			break
		}
	}
	if found < 0 {
		return nil
	}
	ts := d.lines[found].durationFromStart
	target := found
	for i := found - 1; i > 0; i-- {
		line := d.lines[i]
		if !line.HasSpines() {
			continue
		}
		if line.IsExclusiveInterpretation() || !line.durationFromStart.Equal(ts) {
			break
		}
		target = i
	}
	return d.insertTimedInterpretation(target, d.lines[found])
}

func (d *Document) insertTimedInterpretation(index int, timing *Line) *Line {
	line := d.insertNullLine(index, "*")
	line.durationFromStart = timing.durationFromStart
	line.durationFromBarline = timing.durationFromBarline
	line.durationToBarline = timing.durationToBarline
	line.duration = rational.Zero
	return line
}

// InsertNullInterpretationLineAt inserts a line of null interpretations at
// index, linked into the spine graph. index may equal LineCount to append.
// It panics on an empty document, beyond the end, or where no spine passes.
func (d *Document) InsertNullInterpretationLineAt(index int) *Line {
	if len(d.lines) == 0 {
		panic("humdrum: cannot insert a null interpretation line into an empty document")
	}
	if index < 0 || index > len(d.lines) {
		panic(fmt.Sprintf("humdrum: cannot insert a null interpretation line at %d beyond the end of %d lines", index, len(d.lines)))
	}
	var timing *Line
	if index < len(d.lines) {
		timing = d.lines[index]
	}
	prevTiming := d.lines[max(index-1, 0)]
	line := d.insertNullLine(index, "*")
	if timing != nil {
		line.durationFromStart = timing.durationFromStart
		line.durationFromBarline = timing.durationFromBarline
		line.durationToBarline = timing.durationToBarline
	} else {
		line.durationFromStart = prevTiming.durationFromStart.Add(prevTiming.duration)
		line.durationFromBarline = prevTiming.durationFromBarline.Add(prevTiming.duration)
		line.durationToBarline = prevTiming.durationToBarline.Add(prevTiming.duration)
	}
	line.duration = rational.Zero
	return line
}

// insertNullLine splices a line of null tokens into the graph at index. It
// copies the shape of the next spined line and takes over its incoming links;
// at the end of the file it follows the last spined line instead.
func (d *Document) insertNullLine(index int, null string) *Line {
	if !d.structureDone {
		panic("humdrum: cannot insert a null line into a document without valid spine structure")
	}
	next := d.spinedLineFrom(index)
	before := d.spinedLineBefore(index)
	if next != nil && (before == nil || next.IsExclusiveInterpretation()) {
		next = nil
	}
	if next == nil && (before == nil || before.IsManipulator()) {
		panic(fmt.Sprintf("humdrum: no spine passes line %d for a null line", index))
	}
	shape := next
	if shape == nil {
		shape = before
	}

	fields := make([]string, shape.TokenCount())
	for i := range fields {
		fields[i] = null
	}
	line := newLine(d, index, strings.Join(fields, "\t"))
	d.lines = append(d.lines, nil)
	copy(d.lines[index+1:], d.lines[index:])
	d.lines[index] = line
	d.reindexFrom(index)

	for j, id := range shape.tokens {
		orig := d.tokens[id]
		tok := newToken(d, null, index, j)
		tok.spineInfo = orig.spineInfo
		tok.track = orig.track
		tok.subtrack = orig.subtrack
		nid := d.addToken(tok)
		line.tokens = append(line.tokens, nid)
		line.tabs = append(line.tabs, 1)
		if next != nil {
			tok.prev = orig.prev
			for _, pid := range tok.prev {
				replaceID(d.tokens[pid].next, id, nid)
			}
			orig.prev = []TokenID{nid}
			tok.next = []TokenID{id}
		} else {
			tok.next = orig.next
			for _, sid := range tok.next {
				replaceID(d.tokens[sid].prev, id, nid)
			}
			orig.next = []TokenID{nid}
			tok.prev = []TokenID{id}
		}
	}
	if n := len(line.tabs); n > 0 {
		line.tabs[n-1] = 0
	}

	d.tpq = nil
	d.analyzeStrands()
	d.analyzeNonNullDataTokens()
	return line
}

func (d *Document) spinedLineFrom(index int) *Line {
	for i := index; i < len(d.lines); i++ {
		if d.lines[i].HasSpines() {
			return d.lines[i]
		}
	}
	return nil
}

func (d *Document) spinedLineBefore(index int) *Line {
	for i := index - 1; i >= 0; i-- {
		if d.lines[i].HasSpines() {
			return d.lines[i]
		}
	}
	return nil
}

func (d *Document) reindexFrom(index int) {
	for i := index; i < len(d.lines); i++ {
		line := d.lines[i]
		line.index = i
		for _, id := range line.tokens {
			d.tokens[id].line = i
		}
	}
	for i, b := range d.barlines {
		if b >= index {
			d.barlines[i] = b + 1
		}
	}
}

func replaceID(ids []TokenID, old, repl TokenID) {
	for i, id := range ids {
		if id == old {
			ids[i] = repl
		}
	}
}
