package humdrum

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure marks fatal spine-structure and linking failures.
	ErrStructure = errors.New("humdrum: structural error")
	// ErrRhythm marks conflicting or unlinkable rhythm.
	ErrRhythm = errors.New("humdrum: rhythm error")
	// ErrEncoding marks input that cannot be decoded as text.
	ErrEncoding = errors.New("humdrum: cannot decode input")
	// ErrInvalidDocument is returned by operations that need a valid document.
	ErrInvalidDocument = errors.New("humdrum: document is invalid")
)

// AnalysisError is the fatal failure recorded by an analysis pass.
type AnalysisError struct {
	Kind    error
	Line    int // 1-based line number; 0 when unknown
	Message string
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Kind
}

func newStructureError(line int, format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: ErrStructure, Line: line, Message: fmt.Sprintf(format, args...)}
}

func newRhythmError(line int, format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: ErrRhythm, Line: line, Message: fmt.Sprintf(format, args...)}
}
