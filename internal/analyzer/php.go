package analyzer

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// phpRules builds the extraction table for PHP. Variable sigils are stripped
// ($total becomes total), and constructor property promotion marks the
// promoted parameters so they surface as class attributes as well.
func phpRules() *ruleSet {
	return &ruleSet{
		kinds: map[string]action{
			"function_definition": actionFunction,
			"method_declaration":  actionFunction,

			"class_declaration": actionClass,

			"property_declaration":  actionVariable,
			"assignment_expression": actionVariable,

			"function_call_expression":   actionCall,
			"member_call_expression":     actionCall,
			"scoped_call_expression":     actionCall,
			"object_creation_expression": actionCall,

			"anonymous_function": actionSkip,
			"arrow_function":     actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: phpParameters,

		className: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: phpVariables,

		callee: phpCallee,

		constructorNames: map[string]bool{"__construct": true},
		selfNames:        map[string]bool{"this": true},
	}
}

func phpName(n *sitter.Node, src []byte) string {
	return strings.TrimPrefix(nodeText(n, src), "$")
}

func phpParameters(n *sitter.Node, src []byte) []paramFact {
	var params []paramFact
	for _, child := range namedChildren(n.ChildByFieldName("parameters")) {
		switch child.Kind() {
		case "simple_parameter", "property_promotion_parameter":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			params = append(params, paramFact{
				name:    phpName(name, src),
				typ:     optText(child.ChildByFieldName("type"), src),
				def:     optText(child.ChildByFieldName("default_value"), src),
				promote: child.Kind() == "property_promotion_parameter",
			})
		case "variadic_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				params = append(params, paramFact{
					name: phpName(name, src),
					typ:  optText(child.ChildByFieldName("type"), src),
				})
			}
		}
	}
	return params
}

func phpVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	if n.Kind() == "property_declaration" {
		typ := optText(n.ChildByFieldName("type"), src)
		var facts []varFact
		for _, child := range namedChildren(n) {
			if child.Kind() != "property_element" {
				continue
			}
			name := childByKind(child, "variable_name")
			if name == nil {
				continue
			}
			facts = append(facts, varFact{
				name:  phpName(name, src),
				typ:   typ,
				value: optText(child.ChildByFieldName("default_value"), src),
			})
		}
		return facts, nil
	}

	left := n.ChildByFieldName("left")
	if left == nil {
		return nil, nil
	}
	right := n.ChildByFieldName("right")

	switch left.Kind() {
	case "variable_name":
		return []varFact{{
			name:  phpName(left, src),
			value: optText(right, src),
		}}, nil

	case "member_access_expression":
		object := left.ChildByFieldName("object")
		name := left.ChildByFieldName("name")
		if object == nil || name == nil || nodeText(object, src) != "$this" {
			return nil, nil
		}
		fact := varFact{
			name:     nodeText(name, src),
			value:    optText(right, src),
			memberOf: "this",
		}
		if right != nil && right.Kind() == "variable_name" {
			fact.rhsIdent = phpName(right, src)
		}
		return []varFact{fact}, nil
	}

	return nil, nil
}

func phpCallee(n *sitter.Node, src []byte) (string, bool) {
	switch n.Kind() {
	case "function_call_expression":
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return "", false
		}
		switch fn.Kind() {
		case "name", "qualified_name":
			return nodeText(fn, src), true
		}
		return "", false

	case "member_call_expression":
		object := n.ChildByFieldName("object")
		name := n.ChildByFieldName("name")
		if object == nil || name == nil || object.Kind() != "variable_name" {
			return "", false
		}
		return nodeText(object, src) + "->" + nodeText(name, src), true

	case "scoped_call_expression":
		scope := n.ChildByFieldName("scope")
		name := n.ChildByFieldName("name")
		if scope == nil || name == nil || !singleLine(scope) {
			return "", false
		}
		return nodeText(scope, src) + "::" + nodeText(name, src), true

	case "object_creation_expression":
		if name := childByKind(n, "name"); name != nil {
			return nodeText(name, src), true
		}
		if name := childByKind(n, "qualified_name"); name != nil {
			return nodeText(name, src), true
		}
		return "", false
	}
	return "", false
}
