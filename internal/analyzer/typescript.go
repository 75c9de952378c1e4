package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typescriptRules builds the extraction table for the TypeScript/JavaScript
// family. JavaScript is parsed with the same grammar, so one table serves
// both dialects; annotation-bearing nodes simply never appear in JS trees.
//
// Arrow functions and function expressions are anonymous closures on their
// own, but a declarator binding one (const f = () => {}) is reported as a
// function named after the binding.
func typescriptRules() *ruleSet {
	identKinds := map[string]bool{"identifier": true, "this": true, "super": true}

	return &ruleSet{
		kinds: map[string]action{
			"function_declaration":           actionFunction,
			"generator_function_declaration": actionFunction,
			"method_definition":              actionFunction,

			"class_declaration":          actionClass,
			"abstract_class_declaration": actionClass,

			"variable_declarator":     actionVariable,
			"public_field_definition": actionVariable,
			"assignment_expression":   actionVariable,

			"call_expression": actionCall,
			"new_expression":  actionCall,

			"arrow_function":      actionSkip,
			"function_expression": actionSkip,
			"function":            actionSkip,
			"generator_function":  actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			name := n.ChildByFieldName("name")
			if name == nil {
				return ""
			}
			switch name.Kind() {
			case "identifier", "property_identifier", "private_property_identifier":
				return nodeText(name, src)
			}
			// Computed method names have no stable textual identity.
			return ""
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: typescriptParameters,

		className: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: typescriptVariables,

		callee: func(n *sitter.Node, src []byte) (string, bool) {
			if n.Kind() == "new_expression" {
				ctor := n.ChildByFieldName("constructor")
				if ctor != nil && ctor.Kind() == "identifier" {
					return nodeText(ctor, src), true
				}
				return "", false
			}
			fn := n.ChildByFieldName("function")
			return chainText(fn, src, "object", "property", identKinds, "member_expression")
		},

		constructorNames: map[string]bool{"constructor": true},
		selfNames:        map[string]bool{"this": true},
	}
}

// tsAnnotation unwraps a type_annotation node (": number") to its type text.
func tsAnnotation(n *sitter.Node, src []byte) *string {
	if n == nil {
		return nil
	}
	return optText(n.NamedChild(0), src)
}

func typescriptParameters(n *sitter.Node, src []byte) []paramFact {
	paramsNode := n.ChildByFieldName("parameters")
	if paramsNode == nil {
		// Single-parameter arrow shorthand: x => x * 2
		if p := n.ChildByFieldName("parameter"); p != nil && p.Kind() == "identifier" {
			return []paramFact{{name: nodeText(p, src)}}
		}
		return nil
	}

	var params []paramFact
	for _, child := range namedChildren(paramsNode) {
		switch child.Kind() {
		case "identifier":
			params = append(params, paramFact{name: nodeText(child, src)})
		case "required_parameter", "optional_parameter":
			pattern := child.ChildByFieldName("pattern")
			if pattern == nil || pattern.Kind() != "identifier" {
				// Destructured parameters have no single name; dropped.
				continue
			}
			params = append(params, paramFact{
				name: nodeText(pattern, src),
				typ:  tsAnnotation(child.ChildByFieldName("type"), src),
				def:  optText(child.ChildByFieldName("value"), src),
			})
		case "rest_pattern":
			params = append(params, paramFact{name: nodeText(child, src)})
		}
	}
	return params
}

// tsFunctionValue reports whether a declarator value is a function closure.
func tsFunctionValue(kind string) bool {
	switch kind {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

func typescriptVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	switch n.Kind() {
	case "variable_declarator":
		name := n.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			return nil, nil
		}
		value := n.ChildByFieldName("value")
		if value != nil && tsFunctionValue(value.Kind()) {
			return nil, []funcFact{{name: nodeText(name, src), node: value, decl: n}}
		}
		return []varFact{{
			name:  nodeText(name, src),
			typ:   tsAnnotation(n.ChildByFieldName("type"), src),
			value: optText(value, src),
		}}, nil

	case "public_field_definition":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil, nil
		}
		return []varFact{{
			name:  nodeText(name, src),
			typ:   tsAnnotation(n.ChildByFieldName("type"), src),
			value: optText(n.ChildByFieldName("value"), src),
		}}, nil

	case "assignment_expression":
		// Only this.<name> = <param> promotion counts as a declaration.
		left := n.ChildByFieldName("left")
		if left == nil || left.Kind() != "member_expression" {
			return nil, nil
		}
		object := left.ChildByFieldName("object")
		property := left.ChildByFieldName("property")
		if object == nil || property == nil || object.Kind() != "this" {
			return nil, nil
		}
		right := n.ChildByFieldName("right")
		fact := varFact{
			name:     nodeText(property, src),
			value:    optText(right, src),
			memberOf: "this",
		}
		if right != nil && right.Kind() == "identifier" {
			fact.rhsIdent = nodeText(right, src)
		}
		return []varFact{fact}, nil
	}

	return nil, nil
}
