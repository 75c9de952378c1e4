package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonRules builds the extraction table for Python. Annotated assignments
// surface as assignment nodes with a type field, so one mapping covers both
// plain and typed declarations. Lambdas are anonymous and dropped; async and
// decorated functions share the function_definition kind.
func pythonRules() *ruleSet {
	identKinds := map[string]bool{"identifier": true}

	return &ruleSet{
		kinds: map[string]action{
			"function_definition": actionFunction,
			"class_definition":    actionClass,
			"assignment":          actionVariable,
			"call":                actionCall,
			"lambda":              actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},
		parameters: pythonParameters,

		className: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			return n.ChildByFieldName("body")
		},

		variables: pythonVariables,

		callee: func(n *sitter.Node, src []byte) (string, bool) {
			fn := n.ChildByFieldName("function")
			return chainText(fn, src, "object", "attribute", identKinds, "attribute")
		},

		constructorNames: map[string]bool{"__init__": true},
		selfNames:        map[string]bool{"self": true},
	}
}

func pythonParameters(n *sitter.Node, src []byte) []paramFact {
	var params []paramFact
	for _, child := range namedChildren(n.ChildByFieldName("parameters")) {
		switch child.Kind() {
		case "identifier":
			params = append(params, paramFact{name: nodeText(child, src)})
		case "default_parameter":
			params = append(params, paramFact{
				name: nodeText(child.ChildByFieldName("name"), src),
				def:  optText(child.ChildByFieldName("value"), src),
			})
		case "typed_parameter":
			// typed_parameter has no name field; the pattern is its first
			// named child.
			var name string
			if pattern := child.NamedChild(0); pattern != nil && pattern.Kind() == "identifier" {
				name = nodeText(pattern, src)
			}
			if name == "" {
				continue
			}
			params = append(params, paramFact{
				name: name,
				typ:  optText(child.ChildByFieldName("type"), src),
			})
		case "typed_default_parameter":
			params = append(params, paramFact{
				name: nodeText(child.ChildByFieldName("name"), src),
				typ:  optText(child.ChildByFieldName("type"), src),
				def:  optText(child.ChildByFieldName("value"), src),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			// *args / **kwargs, recorded with their source spelling.
			params = append(params, paramFact{name: nodeText(child, src)})
		}
	}
	return params
}

func pythonVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	left := n.ChildByFieldName("left")
	if left == nil {
		return nil, nil
	}
	right := n.ChildByFieldName("right")

	switch left.Kind() {
	case "identifier":
		return []varFact{{
			name:  nodeText(left, src),
			typ:   optText(n.ChildByFieldName("type"), src),
			value: optText(right, src),
		}}, nil

	case "attribute":
		// self.x = ... inside a constructor promotes to a class attribute;
		// the visitor decides based on scope.
		object := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if object == nil || attr == nil || object.Kind() != "identifier" {
			return nil, nil
		}
		fact := varFact{
			name:     nodeText(attr, src),
			typ:      optText(n.ChildByFieldName("type"), src),
			value:    optText(right, src),
			memberOf: nodeText(object, src),
		}
		if right != nil && right.Kind() == "identifier" {
			fact.rhsIdent = nodeText(right, src)
		}
		return []varFact{fact}, nil
	}

	// Tuple unpacking and subscript targets have no single declarable name.
	return nil, nil
}
