package analyzer

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustRules builds the extraction table for Rust. Structs and impl blocks
// both map to the class shape: a struct contributes its fields as attributes,
// an impl block contributes its functions as methods of the implemented type.
// The canonical model does not join the two; that would be cross-declaration
// resolution, which stays out of scope.
func rustRules() *ruleSet {
	return &ruleSet{
		kinds: map[string]action{
			"function_item": actionFunction,

			"struct_item": actionClass,
			"impl_item":   actionClass,

			"let_declaration":   actionVariable,
			"const_item":        actionVariable,
			"static_item":       actionVariable,
			"field_declaration": actionVariable,

			"call_expression":  actionCall,
			"macro_invocation": actionCall,

			"closure_expression": actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: rustParameters,

		className: func(n *sitter.Node, src []byte) string {
			if n.Kind() == "impl_item" {
				typ := n.ChildByFieldName("type")
				if typ == nil || !singleLine(typ) {
					return ""
				}
				return nodeText(typ, src)
			}
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: rustVariables,

		callee: rustCallee,
	}
}

func rustParameters(n *sitter.Node, src []byte) []paramFact {
	var params []paramFact
	for _, child := range namedChildren(n.ChildByFieldName("parameters")) {
		switch child.Kind() {
		case "parameter":
			pattern := child.ChildByFieldName("pattern")
			name := rustPatternName(pattern, src)
			if name == "" {
				continue
			}
			params = append(params, paramFact{
				name: name,
				typ:  optText(child.ChildByFieldName("type"), src),
			})
		case "self_parameter":
			params = append(params, paramFact{name: "self"})
		}
	}
	return params
}

// rustPatternName resolves a binding pattern to its identifier, tolerating
// mut and reference wrappers. Destructuring patterns yield no name.
func rustPatternName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "identifier" {
		return nodeText(n, src)
	}
	switch n.Kind() {
	case "mut_pattern", "reference_pattern":
		if ident := childByKind(n, "identifier"); ident != nil {
			return nodeText(ident, src)
		}
	}
	return ""
}

func rustVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	switch n.Kind() {
	case "let_declaration":
		name := rustPatternName(n.ChildByFieldName("pattern"), src)
		if name == "" {
			return nil, nil
		}
		return []varFact{{
			name:  name,
			typ:   optText(n.ChildByFieldName("type"), src),
			value: optText(n.ChildByFieldName("value"), src),
		}}, nil

	case "const_item", "static_item":
		return []varFact{{
			name:  nodeText(n.ChildByFieldName("name"), src),
			typ:   optText(n.ChildByFieldName("type"), src),
			value: optText(n.ChildByFieldName("value"), src),
		}}, nil

	case "field_declaration":
		return []varFact{{
			name: nodeText(n.ChildByFieldName("name"), src),
			typ:  optText(n.ChildByFieldName("type"), src),
		}}, nil
	}

	return nil, nil
}

func rustCallee(n *sitter.Node, src []byte) (string, bool) {
	if n.Kind() == "macro_invocation" {
		macro := n.ChildByFieldName("macro")
		if macro == nil || !singleLine(macro) {
			return "", false
		}
		return nodeText(macro, src) + "!", true
	}

	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	switch fn.Kind() {
	case "identifier", "scoped_identifier", "field_expression":
		text := nodeText(fn, src)
		// Reject computed callees: anything beyond a plain path or field
		// chain, e.g. (f)() or v[0]() or make().call().
		if !singleLine(fn) || strings.ContainsAny(text, "()[]{}\" ") {
			return "", false
		}
		return text, true
	}
	return "", false
}
