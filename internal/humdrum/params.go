package humdrum

import "strings"

// Layout directive prefixes.
const (
	localLayoutPrefix  = "!LO:"
	globalLayoutPrefix = "!!LO:"
)

// Param is one name/value pair of a parameter set. A bare name has the value
// "true".
type Param struct {
	Name  string
	Value string
}

// ParamSet is a parsed layout directive such as "!LO:N:vis=4:t=x".
type ParamSet struct {
	Namespace1 string
	Namespace2 string
	Params     []Param
	// Origin is the comment token the set was parsed from.
	Origin TokenID
}

// ParseParamSet parses a local or global parameter comment. It reports false
// when text has fewer than two namespaces.
func ParseParamSet(text string) (*ParamSet, bool) {
	body := strings.TrimLeft(text, "!")
	parts := strings.Split(body, ":")
	if len(parts) < 2 || parts[0] == "" {
		return nil, false
	}
	set := &ParamSet{Namespace1: parts[0], Namespace2: parts[1], Origin: NoToken}
	for _, item := range parts[2:] {
		if item == "" {
			continue
		}
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			value = "true"
		}
		set.Params = append(set.Params, Param{
			Name:  unescapeParam(name),
			Value: unescapeParam(value),
		})
	}
	return set, true
}

// Value returns the value of name in the set.
func (p *ParamSet) Value(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, param := range p.Params {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

func unescapeParam(s string) string {
	return strings.ReplaceAll(s, "&colon", ":")
}

func isLocalLayoutText(text string) bool {
	return strings.HasPrefix(text, localLayoutPrefix)
}

func isGlobalLayoutText(text string) bool {
	return strings.HasPrefix(text, globalLayoutPrefix)
}

// analyzeGlobalParameters links each run of "!!LO:" lines to every token of
// the next spined line that is neither all null nor a local comment.
func (d *Document) analyzeGlobalParameters() *AnalysisError {
	var pending []TokenID
	for _, line := range d.lines {
		if line.IsGlobalComment() && isGlobalLayoutText(line.text) {
			if tok := line.Token(0); tok != nil && tok.params != nil {
				pending = append(pending, tok.id)
			}
			continue
		}
		if len(pending) == 0 || !line.HasSpines() || line.IsAllNull() || line.IsLocalComment() {
			continue
		}
		for _, tok := range line.Tokens() {
			for _, id := range pending {
				tok.linkParameterSet(id)
			}
		}
		pending = nil
	}
	return nil
}
