package analyzer

import (
	"strings"

	"codescope/internal/model"
)

// AnalyzeSource runs the full single-file pipeline over in-memory content:
// parse, extract, then normalize into the canonical record. It performs no
// I/O and holds no shared state, so callers may invoke it concurrently with
// distinct handlers or the same one.
func AnalyzeSource(h *Handler, path string, source []byte) (*model.FileRecord, error) {
	tree, err := parseSource(h, path, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	record := extractRecord(h, tree.RootNode(), path, source)
	buildRecord(record, lineCount(source))
	return record, nil
}

// lineCount counts lines the way editors do: a trailing newline does not
// start a new line, and empty content still has one line.
func lineCount(source []byte) int {
	n := strings.Count(string(source), "\n")
	if len(source) == 0 || source[len(source)-1] != '\n' {
		n++
	}
	return n
}
