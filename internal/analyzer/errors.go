package analyzer

import "fmt"

// UnsupportedLanguageError reports a file whose extension or language hint
// matches no registered grammar handler. The aggregator skips such files and
// records a diagnostic; it never aborts the run.
type UnsupportedLanguageError struct {
	Path string
	Ext  string
	Hint string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("no grammar handler for language %q (file %s)", e.Hint, e.Path)
	}
	return fmt.Sprintf("no grammar handler for extension %q (file %s)", e.Ext, e.Path)
}

// ParseError reports input the grammar could not produce a tree for. Line and
// Column are 1-based and zero when the position could not be determined.
type ParseError struct {
	Path   string
	Msg    string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Msg)
}
