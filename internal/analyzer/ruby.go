package analyzer

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rubyRules builds the extraction table for Ruby. Instance variables keep
// their bare name (@count becomes count); do/end blocks are ordinary nested
// blocks, so their locals belong to the nearest enclosing method.
func rubyRules() *ruleSet {
	return &ruleSet{
		kinds: map[string]action{
			"method":           actionFunction,
			"singleton_method": actionFunction,

			"class":  actionClass,
			"module": actionClass,

			"assignment": actionVariable,

			"call": actionCall,

			"lambda": actionSkip,
		},

		functionName: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		functionBody: func(n *sitter.Node, src []byte) *sitter.Node {
			if body := n.ChildByFieldName("body"); body != nil {
				return body
			}
			return childByKind(n, "body_statement")
		},
		parameters: rubyParameters,

		className: func(n *sitter.Node, src []byte) string {
			return nodeText(n.ChildByFieldName("name"), src)
		},
		classBody: func(n *sitter.Node, src []byte) *sitter.Node {
			if body := n.ChildByFieldName("body"); body != nil {
				return body
			}
			return childByKind(n, "body_statement")
		},

		variables: rubyVariables,

		callee: rubyCallee,

		constructorNames: map[string]bool{"initialize": true},
		selfNames:        map[string]bool{"self": true},
	}
}

func rubyParameters(n *sitter.Node, src []byte) []paramFact {
	var params []paramFact
	for _, child := range namedChildren(n.ChildByFieldName("parameters")) {
		switch child.Kind() {
		case "identifier":
			params = append(params, paramFact{name: nodeText(child, src)})
		case "optional_parameter", "keyword_parameter":
			params = append(params, paramFact{
				name: nodeText(child.ChildByFieldName("name"), src),
				def:  optText(child.ChildByFieldName("value"), src),
			})
		case "splat_parameter", "hash_splat_parameter", "block_parameter":
			params = append(params, paramFact{name: nodeText(child, src)})
		}
	}
	return params
}

func rubyVariables(n *sitter.Node, src []byte) ([]varFact, []funcFact) {
	left := n.ChildByFieldName("left")
	if left == nil {
		return nil, nil
	}
	right := n.ChildByFieldName("right")

	switch left.Kind() {
	case "identifier", "constant":
		return []varFact{{
			name:  nodeText(left, src),
			value: optText(right, src),
		}}, nil

	case "class_variable":
		// @@total at class body level is a body-level attribute.
		return []varFact{{
			name:  strings.TrimLeft(nodeText(left, src), "@"),
			value: optText(right, src),
		}}, nil

	case "instance_variable":
		fact := varFact{
			name:     strings.TrimPrefix(nodeText(left, src), "@"),
			value:    optText(right, src),
			memberOf: "self",
		}
		if right != nil && right.Kind() == "identifier" {
			fact.rhsIdent = nodeText(right, src)
		}
		return []varFact{fact}, nil
	}

	return nil, nil
}

func rubyCallee(n *sitter.Node, src []byte) (string, bool) {
	method := n.ChildByFieldName("method")
	if method == nil {
		return "", false
	}
	receiver := n.ChildByFieldName("receiver")
	if receiver == nil {
		return nodeText(method, src), true
	}
	switch receiver.Kind() {
	case "identifier", "constant", "instance_variable", "self":
		return nodeText(receiver, src) + "." + nodeText(method, src), true
	}
	return "", false
}
