package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// cRules builds the extraction table for C. Named structs with bodies map to
// the class shape (fields as attributes, no methods); declarator chains are
// unwrapped through pointers and arrays to reach the declared identifier.
func cRules() *ruleSet {
	return &ruleSet{
		kinds: map[string]action{
			"function_definition": actionFunction,

			"struct_specifier": actionClass,

			"declaration":       actionVariable,
			"field_declaration": actionVariable,

			"call_expression": actionCall,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return cDeclaratorName(n.ChildByFieldName("declarator"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: cParameters,

		className: func(n *sitter.Node, src []byte) string {
			// struct_specifier also appears as a bare type reference; only a
			// named definition with a body is a declaration.
			if n.ChildByFieldName("body") == nil {
				return ""
			}
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: cVariables,

		callee: func(n *sitter.Node, src []byte) (string, bool) {
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return "", false
			}
			switch fn.Kind() {
			case "identifier":
				return nodeText(fn, src), true
			case "field_expression":
				arg := fn.ChildByFieldName("argument")
				field := fn.ChildByFieldName("field")
				if arg != nil && field != nil && arg.Kind() == "identifier" {
					return nodeText(arg, src) + "." + nodeText(field, src), true
				}
			}
			return "", false
		},
	}
}

// cDeclaratorName unwraps pointer, array, function, and parenthesized
// declarators to the underlying identifier.
func cDeclaratorName(n *sitter.Node, src []byte) string {
	for n != nil {
		switch n.Kind() {
		case "identifier", "field_identifier":
			return nodeText(n, src)
		case "pointer_declarator", "array_declarator", "function_declarator", "parenthesized_declarator", "init_declarator":
			n = n.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

func cParameters(n *sitter.Node, src []byte) []paramFact {
	declarator := n.ChildByFieldName("declarator")
	for declarator != nil && declarator.Kind() != "function_declarator" {
		declarator = declarator.ChildByFieldName("declarator")
	}
	if declarator == nil {
		return nil
	}

	var params []paramFact
	for _, child := range namedChildren(declarator.ChildByFieldName("parameters")) {
		if child.Kind() != "parameter_declaration" {
			continue
		}
		name := cDeclaratorName(child.ChildByFieldName("declarator"), src)
		if name == "" {
			// void parameter lists and abstract declarators.
			continue
		}
		params = append(params, paramFact{
			name: name,
			typ:  optText(child.ChildByFieldName("type"), src),
		})
	}
	return params
}

func cVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	typ := optText(n.ChildByFieldName("type"), src)

	if n.Kind() == "field_declaration" {
		name := cDeclaratorName(n.ChildByFieldName("declarator"), src)
		if name == "" {
			return nil, nil
		}
		return []varFact{{name: name, typ: typ}}, nil
	}

	var facts []varFact
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "init_declarator":
			name := cDeclaratorName(child.ChildByFieldName("declarator"), src)
			if name == "" {
				continue
			}
			facts = append(facts, varFact{
				name:  name,
				typ:   typ,
				value: optText(child.ChildByFieldName("value"), src),
			})
		case "identifier", "pointer_declarator", "array_declarator":
			name := cDeclaratorName(child, src)
			if name == "" {
				continue
			}
			facts = append(facts, varFact{name: name, typ: typ})
		case "function_declarator":
			// Prototype, not a variable.
		}
	}
	return facts, nil
}
