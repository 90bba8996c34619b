package humdrum

import (
	"regexp"
	"strings"
)

// ReferenceRecord is a "!!!KEY: value" or "!!!!KEY: value" line.
type ReferenceRecord struct {
	Key       string
	Value     string
	Line      int
	Universal bool
}

// ReferenceRecords returns every reference record in file order.
func (d *Document) ReferenceRecords() []ReferenceRecord {
	var out []ReferenceRecord
	for _, line := range d.lines {
		if !line.IsReference() {
			continue
		}
		out = append(out, ReferenceRecord{
			Key:       line.ReferenceKey(),
			Value:     line.ReferenceValue(),
			Line:      line.index,
			Universal: line.IsUniversalReference(),
		})
	}
	return out
}

// ReferenceValue returns the value of the first reference record with key.
func (d *Document) ReferenceValue(key string) (string, bool) {
	for _, line := range d.lines {
		if line.IsReference() && line.ReferenceKey() == key {
			return line.ReferenceValue(), true
		}
	}
	return "", false
}

// Signifier is a "!!!RDF**type: sig = definition" record. Records without an
// "=" have an empty Signifier and the whole value as Definition.
type Signifier struct {
	ExclusiveInterpretation string
	Signifier               string
	Definition              string
	Line                    int
}

var (
	signifierPattern  = regexp.MustCompile(`^!!!RDF(\*\*[^\s:]+)\s*:\s*(.*?)\s*$`)
	definitionPattern = regexp.MustCompile(`^\s*([^\s=]+)\s*=\s*(.*?)\s*$`)
)

// ParseSignifier parses one RDF line.
func ParseSignifier(text string) (Signifier, bool) {
	m := signifierPattern.FindStringSubmatch(text)
	if m == nil {
		return Signifier{}, false
	}
	sig := Signifier{ExclusiveInterpretation: m[1]}
	if def := definitionPattern.FindStringSubmatch(m[2]); def != nil {
		sig.Signifier = def[1]
		sig.Definition = def[2]
	} else {
		sig.Definition = strings.TrimSpace(m[2])
	}
	return sig, true
}

func (d *Document) analyzeSignifiers() *AnalysisError {
	d.signifiers = nil
	for _, line := range d.lines {
		if !line.IsSignifier() {
			continue
		}
		sig, ok := ParseSignifier(line.text)
		if !ok {
			continue
		}
		sig.Line = line.index
		d.signifiers = append(d.signifiers, sig)
	}
	return nil
}

// Signifiers returns every RDF record in file order.
func (d *Document) Signifiers() []Signifier {
	out := make([]Signifier, len(d.signifiers))
	copy(out, d.signifiers)
	return out
}

// Signifier returns the definition of sig for an exclusive interpretation.
// The "**" prefix is optional.
func (d *Document) Signifier(exinterp, sig string) (Signifier, bool) {
	if !strings.HasPrefix(exinterp, "**") {
		exinterp = "**" + exinterp
	}
	for _, s := range d.signifiers {
		if s.ExclusiveInterpretation == exinterp && s.Signifier == sig {
			return s, true
		}
	}
	return Signifier{}, false
}
