package humdrum

import (
	"humspine/internal/logging"
	"humspine/internal/rational"
)

type durationTask struct {
	tok   TokenID
	start rational.Rat
	exact bool
}

// analyzeRhythm assigns timing to every line. Spines that start on the first
// spine's line are propagated from zero; later ("floating") spines are
// anchored to the first line already timed by another spine.
func (d *Document) analyzeRhythm() *AnalysisError {
	d.rhythmGen++
	d.mergeArrivals = make(map[TokenID]rational.Rat)
	if d.MaxTrack() == 0 {
		d.finishRhythm()
		return nil
	}
	first := d.TrackStart(1)
	if first != nil && first.text == RecipType {
		return d.assignRhythmFromRecip(first)
	}

	startLine := first.line
	for _, tok := range d.SpineStartList() {
		if !tok.HasRhythm() || tok.line != startLine {
			continue
		}
		if err := d.prepareDurations(tok.id, rational.Zero); err != nil {
			return err
		}
	}
	for _, tok := range d.SpineStartList() {
		if !tok.HasRhythm() || tok.line <= startLine {
			continue
		}
		if err := d.analyzeFloatingSpine(tok); err != nil {
			return err
		}
	}

	if err := d.analyzeNullLineRhythms(); err != nil {
		return err
	}
	d.fillInMissingStartTimes()
	d.assignLineDurations()
	d.analyzeMeter()
	d.analyzeNonRhythmicDurations()
	d.finishRhythm()
	return nil
}

func (d *Document) finishRhythm() {
	for _, line := range d.lines {
		if line.durationFromStart.IsNegative() {
			line.durationFromStart = rational.Zero
		}
		if line.duration.IsNegative() {
			line.duration = rational.Zero
		}
		if line.durationFromBarline.IsNegative() {
			line.durationFromBarline = rational.Zero
		}
		if line.durationToBarline.IsNegative() {
			line.durationToBarline = rational.Zero
		}
	}
	d.scoreDuration = rational.Zero
	if n := len(d.lines); n > 0 {
		last := d.lines[n-1]
		d.scoreDuration = last.durationFromStart.Add(last.duration)
	}
	d.tpq = nil
	d.rhythmDone = true
}

// prepareDurations walks the first forward links from start, timing each
// line it reaches. Split branches wait on a stack with the time they begin
// and run after the main chain, last branch first. A token is processed at
// most once per rhythm generation.
func (d *Document) prepareDurations(start TokenID, startDur rational.Rat) *AnalysisError {
	gen := d.rhythmGen
	stack := []durationTask{{tok: start, start: startDur, exact: true}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sum, exact := task.start, task.exact
		var branches []durationTask
		tok := d.tokens[task.tok]
		for {
			if exact {
				d.noteArrival(tok, sum)
			}
			if tok.rhythmGen == gen {
				break
			}
			tok.rhythmGen = gen
			if err := d.setLineDurationFromStart(tok, sum); err != nil {
				return err
			}
			if tok.duration.IsPositive() {
				sum = sum.Add(tok.duration)
			}
			if tok.IsData() {
				exact = !tok.IsNull()
			}
			if len(tok.next) == 0 {
				break
			}
			for _, id := range tok.next[1:] {
				branches = append(branches, durationTask{tok: id, start: sum, exact: exact})
			}
			tok = d.tokens[tok.next[0]]
		}
		stack = append(stack, branches...)
	}
	return nil
}

// noteArrival remembers when the walk first reaches a token fed by a merge
// and logs any later arrival at a different time. Walks that passed a null
// data token since their last note do not know their time and are not
// noted.
func (d *Document) noteArrival(tok *Token, sum rational.Rat) {
	if len(tok.prev) < 2 {
		return
	}
	first, ok := d.mergeArrivals[tok.id]
	if !ok {
		d.mergeArrivals[tok.id] = sum
		return
	}
	if first.Equal(sum) {
		return
	}
	d.log.Debug("merged sub-spines arrive at different times",
		logging.Line(tok.LineNumber()),
		logging.Int("track", tok.track),
		logging.String("token", tok.text),
		logging.Rat("first_arrival", first),
		logging.Rat("late_arrival", sum),
	)
}

// setLineDurationFromStart records sum on the token's line. A second,
// different arrival is a conflict unless the token is a terminator, which
// keeps the later time.
func (d *Document) setLineDurationFromStart(tok *Token, sum rational.Rat) *AnalysisError {
	if !tok.IsTerminateInterpretation() && tok.duration.IsNegative() {
		return nil
	}
	line := d.lines[tok.line]
	if line.durationFromStart.IsNegative() {
		line.durationFromStart = sum
		return nil
	}
	if line.durationFromStart.Equal(sum) {
		return nil
	}
	if !tok.IsTerminateInterpretation() {
		return newRhythmError(line.LineNumber(),
			"inconsistent rhythm analysis occurring near line %d\nexpected durationFromStart to be %s but found %s\nline %d: %s",
			line.LineNumber(), sum, line.durationFromStart, line.LineNumber(), line.text)
	}
	line.durationFromStart = rational.Max(line.durationFromStart, sum)
	return nil
}

// analyzeFloatingSpine finds the first line on the spine that is already
// timed and starts the spine early enough to arrive there on time.
func (d *Document) analyzeFloatingSpine(start *Token) *AnalysisError {
	sum := rational.Zero
	found := false
	var anchor rational.Rat
	for tok := start; tok != nil; tok = tok.NextToken(0) {
		if dfs := d.lines[tok.line].durationFromStart; !dfs.IsNegative() {
			anchor = dfs
			found = true
			break
		}
		if tok.duration.IsPositive() {
			sum = sum.Add(tok.duration)
		}
	}
	if !found {
		return newRhythmError(start.LineNumber(),
			"cannot link floating spine starting on line %d to score", start.LineNumber())
	}
	begin := anchor.Sub(sum)
	if begin.IsNegative() {
		return newRhythmError(start.LineNumber(),
			"floating spine starting on line %d would begin before the score", start.LineNumber())
	}
	return d.prepareDurations(start.id, begin)
}

// analyzeNullLineRhythms spaces runs of rhythmically null data lines evenly
// between the timed lines around them. Each barline starts a fresh run.
func (d *Document) analyzeNullLineRhythms() *AnalysisError {
	var nullLines []*Line
	var previous *Line
	for _, line := range d.lines {
		if !line.HasSpines() {
			continue
		}
		if line.IsBarline() {
			previous = nil
			nullLines = nil
		}
		if line.IsAllRhythmicNull() {
			if line.IsData() {
				nullLines = append(nullLines, line)
			}
			continue
		}
		if line.durationFromStart.IsNegative() {
			if line.IsData() {
				return newRhythmError(line.LineNumber(),
					"data line %d has no durationFromStart\nline %d: %s",
					line.LineNumber(), line.LineNumber(), line.text)
			}
			continue
		}
		if previous == nil {
			previous = line
			nullLines = nil
			continue
		}
		gap := line.durationFromStart.Sub(previous.durationFromStart)
		step := gap.DivInt(int64(len(nullLines) + 1))
		for j, null := range nullLines {
			null.durationFromStart = previous.durationFromStart.Add(step.MulInt(int64(j + 1)))
		}
		previous = line
		nullLines = nil
	}
	return nil
}

// fillInMissingStartTimes gives untimed lines the time of the next timed line,
// and trailing lines the time of the last one.
func (d *Document) fillInMissingStartTimes() {
	last := rational.MinusOne
	for i := len(d.lines) - 1; i >= 0; i-- {
		line := d.lines[i]
		if line.durationFromStart.IsNegative() && !last.IsNegative() {
			line.durationFromStart = last
		}
		if !line.durationFromStart.IsNegative() {
			last = line.durationFromStart
		}
	}
	for _, line := range d.lines {
		if !line.durationFromStart.IsNegative() {
			last = line.durationFromStart
		} else {
			line.durationFromStart = last
		}
	}
}

func (d *Document) assignLineDurations() {
	for i, line := range d.lines {
		if i == len(d.lines)-1 {
			line.duration = rational.Zero
			continue
		}
		line.duration = d.lines[i+1].durationFromStart.Sub(line.durationFromStart)
	}
}

// assignRhythmFromRecip times lines from a leading **recip spine alone.
func (d *Document) assignRhythmFromRecip(start *Token) *AnalysisError {
	for tok := start; tok != nil; tok = tok.NextToken(0) {
		if tok.IsNonNullData() {
			d.lines[tok.line].duration = RecipToDuration(tok.text, d.opts.recipScale)
		}
	}
	sum := rational.Zero
	for _, line := range d.lines {
		line.durationFromStart = sum
		if line.duration.IsNegative() {
			line.duration = rational.Zero
		}
		sum = sum.Add(line.duration)
	}
	d.analyzeMeter()
	d.analyzeNonRhythmicDurations()
	d.finishRhythm()
	return nil
}

// analyzeNonRhythmicDurations times non-null data in spines without rhythm
// as the distance to the next non-null data token or terminator along the
// first forward links.
func (d *Document) analyzeNonRhythmicDurations() {
	stop := make([]TokenID, len(d.tokens))
	for i := len(d.lines) - 1; i >= 0; i-- {
		for _, id := range d.lines[i].tokens {
			tok := d.tokens[id]
			stop[id] = id
			if len(tok.next) == 0 {
				continue
			}
			n := d.tokens[tok.next[0]]
			if n.IsNonNullData() || n.IsTerminateInterpretation() || len(n.next) == 0 {
				stop[id] = n.id
			} else {
				stop[id] = stop[n.id]
			}
		}
	}
	for _, tok := range d.tokens {
		if tok.track == 0 || !tok.IsNonNullData() || tok.HasRhythm() {
			continue
		}
		end := d.tokens[stop[tok.id]]
		tok.duration = d.lines[end.line].durationFromStart.Sub(d.lines[tok.line].durationFromStart)
	}
}

// analyzeMeter fills durationFromBarline with a forward sweep and
// durationToBarline with a backward one. Data before the first barline is a
// pickup measure starting at line 0.
func (d *Document) analyzeMeter() {
	d.barlines = d.barlines[:0]
	sum := rational.Zero
	foundBarline := false
	for _, line := range d.lines {
		line.durationFromBarline = sum
		sum = sum.Add(line.duration)
		if line.IsBarline() {
			foundBarline = true
			d.barlines = append(d.barlines, line.index)
			sum = rational.Zero
		} else if line.IsData() && !foundBarline {
			d.barlines = append(d.barlines, 0)
			foundBarline = true
		}
	}
	sum = rational.Zero
	for i := len(d.lines) - 1; i >= 0; i-- {
		line := d.lines[i]
		sum = sum.Add(line.duration)
		line.durationToBarline = sum
		if line.IsBarline() {
			sum = rational.Zero
		}
	}
}
