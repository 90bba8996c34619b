package humdrum

import (
	"regexp"
	"strconv"
	"strings"
)

var trackPattern = regexp.MustCompile(`^\(*(\d+)`)

// trackFromSpineInfo returns the first track number in a spine info string.
func trackFromSpineInfo(info string) int {
	m := trackPattern.FindStringSubmatch(info)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// analyzeSpines assigns spine info to every spined token and applies
// manipulators to the running spine state.
func (d *Document) analyzeSpines() *AnalysisError {
	var dataTypes, info []string
	var prev *Line
	started := false

	for _, line := range d.lines {
		if !line.HasSpines() {
			continue
		}
		tokens := line.Tokens()
		if !started {
			for _, tok := range tokens {
				if !tok.IsExclusiveInterpretation() {
					return newStructureError(line.LineNumber(),
						"data found before exclusive interpretation on line %d: %s",
						line.LineNumber(), line.text)
				}
			}
			started = true
			for j, tok := range tokens {
				tok.spineInfo = strconv.Itoa(j + 1)
				info = append(info, tok.spineInfo)
				dataTypes = append(dataTypes, tok.text)
				d.trackStarts = append(d.trackStarts, tok.id)
				d.trackEnds = append(d.trackEnds, nil)
			}
			prev = line
			continue
		}

		if len(info) != len(tokens) {
			return newStructureError(line.LineNumber(),
				"expected %d fields on line %d but found %d\nline %d: %s\nline %d: %s",
				len(info), line.LineNumber(), len(tokens),
				prev.LineNumber(), prev.text, line.LineNumber(), line.text)
		}
		for j, tok := range tokens {
			tok.spineInfo = info[j]
		}
		if line.IsManipulator() {
			var err *AnalysisError
			dataTypes, info, err = d.adjustSpines(line, dataTypes, info)
			if err != nil {
				return err
			}
		}
		prev = line
	}

	for track := 1; track < len(d.trackStarts); track++ {
		if d.trackStarts[track] == NoToken {
			return newStructureError(0, "spine %d was added but never given an exclusive interpretation", track)
		}
	}
	d.structureDone = true
	return nil
}

// adjustSpines returns the spine state that follows a manipulator line.
func (d *Document) adjustSpines(line *Line, dataTypes, info []string) ([]string, []string, *AnalysisError) {
	tokens := line.Tokens()
	newTypes := make([]string, 0, len(tokens)+1)
	newInfo := make([]string, 0, len(tokens)+1)
	mergeCount := 0

	flushMerge := func(end int) *AnalysisError {
		start := end - mergeCount
		if mergeCount == 1 {
			return newStructureError(line.LineNumber(),
				"single spine merge indicator '*v' on line %d: %s", line.LineNumber(), line.text)
		}
		newInfo = append(newInfo, MergedSpineInfo(info, start, mergeCount-1))
		newTypes = append(newTypes, dataTypes[start])
		mergeCount = 0
		return nil
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.IsMergeInterpretation() {
			mergeCount++
			continue
		}
		if mergeCount > 0 {
			if err := flushMerge(i); err != nil {
				return nil, nil, err
			}
		}

		switch {
		case tok.IsSplitInterpretation():
			newInfo = append(newInfo, "("+info[i]+")a", "("+info[i]+")b")
			newTypes = append(newTypes, dataTypes[i], dataTypes[i])
		case tok.IsExchangeInterpretation():
			if i+1 >= len(tokens) || !tokens[i+1].IsExchangeInterpretation() {
				return nil, nil, newStructureError(line.LineNumber(),
					"*x is all alone on line %d: %s", line.LineNumber(), line.text)
			}
			newInfo = append(newInfo, info[i+1], info[i])
			newTypes = append(newTypes, dataTypes[i+1], dataTypes[i])
			i++
		case tok.IsAddInterpretation():
			newInfo = append(newInfo, info[i])
			newTypes = append(newTypes, dataTypes[i])
			d.trackStarts = append(d.trackStarts, NoToken)
			d.trackEnds = append(d.trackEnds, nil)
			newInfo = append(newInfo, strconv.Itoa(len(d.trackStarts)-1))
			newTypes = append(newTypes, "")
		case tok.IsTerminateInterpretation():
			track := trackFromSpineInfo(info[i])
			if track > 0 && track < len(d.trackEnds) {
				d.trackEnds[track] = append(d.trackEnds[track], tok.id)
			}
		case tok.IsExclusiveInterpretation():
			track := trackFromSpineInfo(info[i])
			if dataTypes[i] != "" || track <= 0 || track >= len(d.trackStarts) || d.trackStarts[track] != NoToken {
				return nil, nil, newStructureError(line.LineNumber(),
					"exclusive interpretation with no preparation on line %d, field %d: %s",
					line.LineNumber(), i+1, tok.text)
			}
			d.trackStarts[track] = tok.id
			newInfo = append(newInfo, info[i])
			newTypes = append(newTypes, tok.text)
		default:
			newInfo = append(newInfo, info[i])
			newTypes = append(newTypes, dataTypes[i])
		}
	}
	if mergeCount > 0 {
		if err := flushMerge(len(tokens)); err != nil {
			return nil, nil, err
		}
	}
	return newTypes, newInfo, nil
}

// MergedSpineInfo returns the spine info of extra+1 adjacent spines merged
// from info[start]. Sibling pairs "(X)a" and "(X)b" collapse back to X,
// repeatedly, and whatever cannot collapse is joined with spaces.
func MergedSpineInfo(info []string, start, extra int) string {
	if extra < 1 {
		return info[start]
	}
	pieces := append([]string(nil), info[start:start+extra+1]...)
	for len(pieces) > 1 {
		changed := false
		out := make([]string, 0, len(pieces))
		for i := 0; i < len(pieces); i++ {
			if i+1 < len(pieces) {
				if merged, ok := collapseSiblings(pieces[i], pieces[i+1]); ok {
					out = append(out, merged)
					i++
					changed = true
					continue
				}
			}
			out = append(out, pieces[i])
		}
		pieces = out
		if !changed {
			break
		}
	}
	return strings.Join(pieces, " ")
}

func collapseSiblings(a, b string) (string, bool) {
	if len(a) < 4 || len(a) != len(b) {
		return "", false
	}
	if a[0] != '(' || !strings.HasSuffix(a, ")a") || !strings.HasSuffix(b, ")b") {
		return "", false
	}
	if a[:len(a)-1] != b[:len(b)-1] {
		return "", false
	}
	return a[1 : len(a)-2], true
}

// analyzeTracks derives track and subtrack numbers from spine info.
func (d *Document) analyzeTracks() *AnalysisError {
	for _, line := range d.lines {
		tokens := line.Tokens()
		if !line.HasSpines() {
			for _, tok := range tokens {
				tok.track, tok.subtrack = 0, 0
			}
			continue
		}
		counts := make(map[int]int)
		for _, tok := range tokens {
			tok.track = trackFromSpineInfo(tok.spineInfo)
			counts[tok.track]++
		}
		seen := make(map[int]int)
		for _, tok := range tokens {
			if counts[tok.track] > 1 {
				seen[tok.track]++
				tok.subtrack = seen[tok.track]
			} else {
				tok.subtrack = 0
			}
		}
		if line.IsBarline() {
			d.barlines = append(d.barlines, line.index)
		}
	}
	for _, tok := range d.tokens {
		tok.duration = tok.analyzeDuration()
	}
	return nil
}
