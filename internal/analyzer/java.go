package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaRules builds the extraction table for Java. Interfaces map to the class
// shape (method_declaration nodes without bodies still carry signatures), and
// constructors are recognized by carrying the class's own name.
func javaRules() *ruleSet {
	identKinds := map[string]bool{"identifier": true, "this": true, "super": true}

	return &ruleSet{
		kinds: map[string]action{
			"method_declaration":      actionFunction,
			"constructor_declaration": actionFunction,

			"class_declaration":     actionClass,
			"interface_declaration": actionClass,

			"field_declaration":          actionVariable,
			"local_variable_declaration": actionVariable,
			"assignment_expression":      actionVariable,

			"method_invocation":          actionCall,
			"object_creation_expression": actionCall,

			"lambda_expression": actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: javaParameters,

		className: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: javaVariables,

		callee: func(n *sitter.Node, src []byte) (string, bool) {
			if n.Kind() == "object_creation_expression" {
				typ := n.ChildByFieldName("type")
				if typ != nil && typ.Kind() == "type_identifier" {
					return nodeText(typ, src), true
				}
				return "", false
			}
			name := n.ChildByFieldName("name")
			if name == nil {
				return "", false
			}
			object := n.ChildByFieldName("object")
			if object == nil {
				return nodeText(name, src), true
			}
			prefix, ok := chainText(object, src, "object", "field", identKinds, "field_access")
			if !ok {
				return "", false
			}
			return prefix + "." + nodeText(name, src), true
		},

		classNamedConstructor: true,
		selfNames:             map[string]bool{"this": true},
	}
}

func javaParameters(n *sitter.Node, src []byte) []paramFact {
	var params []paramFact
	for _, child := range namedChildren(n.ChildByFieldName("parameters")) {
		switch child.Kind() {
		case "formal_parameter":
			params = append(params, paramFact{
				name: nodeText(child.ChildByFieldName("name"), src),
				typ:  optText(child.ChildByFieldName("type"), src),
			})
		case "spread_parameter":
			if decl := childByKind(child, "variable_declarator"); decl != nil {
				params = append(params, paramFact{
					name: nodeText(decl.ChildByFieldName("name"), src),
					typ:  optText(childByKind(child, "type_identifier"), src),
				})
			}
		}
	}
	return params
}

func javaVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	switch n.Kind() {
	case "field_declaration", "local_variable_declaration":
		typ := optText(n.ChildByFieldName("type"), src)
		var facts []varFact
		for _, child := range namedChildren(n) {
			if child.Kind() != "variable_declarator" {
				continue
			}
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			facts = append(facts, varFact{
				name:  nodeText(name, src),
				typ:   typ,
				value: optText(child.ChildByFieldName("value"), src),
			})
		}
		return facts, nil

	case "assignment_expression":
		left := n.ChildByFieldName("left")
		if left == nil || left.Kind() != "field_access" {
			return nil, nil
		}
		object := left.ChildByFieldName("object")
		field := left.ChildByFieldName("field")
		if object == nil || field == nil || object.Kind() != "this" {
			return nil, nil
		}
		right := n.ChildByFieldName("right")
		fact := varFact{
			name:     nodeText(field, src),
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
