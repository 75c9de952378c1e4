package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// parseSource runs the handler's grammar over raw file content. It is pure:
// no I/O, no shared state, so it can be exercised with in-memory strings and
// run for many files concurrently. Trees with embedded ERROR nodes from
// recovered partial parses are returned as-is; the visitor skips the error
// regions. A nil tree (the grammar gave up entirely) becomes a typed
// ParseError; malformed input never panics.
//
// The caller owns the returned tree and must Close it.
func parseSource(h *Handler, path string, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(h.language); err != nil {
		return nil, &ParseError{Path: path, Msg: "incompatible grammar: " + err.Error()}
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Msg: "parser produced no syntax tree"}
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, &ParseError{Path: path, Msg: "syntax tree has no root node"}
	}

	// A root that is itself an ERROR means nothing was recoverable.
	if root.Kind() == "ERROR" {
		pos := root.StartPosition()
		tree.Close()
		return nil, &ParseError{
			Path:   path,
			Msg:    "input is not valid " + h.Name,
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
		}
	}

	return tree, nil
}
