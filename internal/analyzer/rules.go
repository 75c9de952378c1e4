package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// action classifies a syntax-node kind for the extraction visitor. Rule tables
// map node kinds to actions so the visitor itself stays language-agnostic;
// only the tables and their field-extraction hooks differ per language.
type action int

const (
	// actionNone descends into children without emitting anything.
	actionNone action = iota
	// actionFunction opens a function scope (named functions and methods).
	actionFunction
	// actionClass opens a class scope.
	actionClass
	// actionVariable emits variable facts for the current scope.
	actionVariable
	// actionCall records a call target in the nearest function scope.
	actionCall
	// actionSkip stops descent entirely (anonymous closures, lambdas).
	actionSkip
)

// paramFact is a raw extracted parameter before canonical assembly. promote
// marks constructor-parameter-to-field shorthand (PHP promoted properties):
// the parameter doubles as a class attribute.
type paramFact struct {
	name    string
	typ     *string
	def     *string
	promote bool
}

// varFact is a raw extracted declaration. A fact with memberOf set is a
// member assignment (this.x / self.x / $this->x) rather than a plain
// declaration; rhsIdent carries the right-hand side when it is a bare
// identifier, which is what constructor-parameter promotion keys on.
type varFact struct {
	name     string
	typ      *string
	value    *string
	memberOf string
	rhsIdent string
}

// funcFact is a function-like declaration discovered by a rule hook: either a
// plain declaration node or a named binding of an anonymous function (arrow
// functions assigned to a const, for example). node carries the parameters
// and body fields; decl defines the reported line range.
type funcFact struct {
	name string
	node *sitter.Node
	decl *sitter.Node
}

// ruleSet is the per-language extraction table. kinds drives the visitor's
// dispatch; the hooks pull names, parameters, bodies, and declaration details
// out of the grammar-specific node shapes.
type ruleSet struct {
	kinds map[string]action

	// functionName returns the declared name, "" for anonymous forms (which
	// are silently dropped per the best-effort policy).
	functionName func(n *sitter.Node, src []byte) string
	// functionBody returns the node walked inside the new function scope.
	functionBody func(n *sitter.Node, src []byte) *sitter.Node
	// parameters extracts the positional parameter list of a function node.
	parameters func(n *sitter.Node, src []byte) []paramFact

	className func(n *sitter.Node, src []byte) string
	classBody func(n *sitter.Node, src []byte) *sitter.Node

	// variables extracts declaration facts from an actionVariable node. It may
	// additionally return function facts for function-valued bindings.
	variables func(n *sitter.Node, src []byte) ([]varFact, []funcFact)

	// callee returns the textual call target when the callee resolves to a
	// direct identifier or a simple member-access chain; ok is false for
	// computed or dynamically constructed callables.
	callee func(n *sitter.Node, src []byte) (string, bool)

	// constructorNames marks method names whose member assignments promote
	// parameters to class attributes (__init__, constructor, initialize, ...).
	constructorNames map[string]bool
	// classNamedConstructor marks languages where the constructor carries the
	// class's own name (Java).
	classNamedConstructor bool
	// selfNames marks receiver keywords for member-assignment promotion.
	selfNames map[string]bool
}

// nodeText returns the source text spanned by n.
func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// startLine returns the 1-based line a node starts on.
func startLine(n *sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// endLine returns the 1-based line a node ends on.
func endLine(n *sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}

// singleLine reports whether a node spans exactly one source line. Initializer
// values are captured verbatim only for single-line expressions; anything that
// would need multi-token reconstruction is omitted.
func singleLine(n *sitter.Node) bool {
	return n.StartPosition().Row == n.EndPosition().Row
}

// optText returns the node text as an optional value, nil for nil nodes and
// multi-line spans.
func optText(n *sitter.Node, src []byte) *string {
	if n == nil || !singleLine(n) {
		return nil
	}
	s := nodeText(n, src)
	if s == "" {
		return nil
	}
	return &s
}

// childByKind returns the first direct child of the given kind.
func childByKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// namedChildren returns all named children of a node.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	children := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

// chainText flattens a member-access chain into dotted text when every link
// is a plain identifier (or a language keyword like this/self). ok is false
// as soon as a computed segment shows up: calls through subscripts, casts,
// or call results are not recorded.
func chainText(n *sitter.Node, src []byte, objectField, propertyField string, identKinds map[string]bool, chainKind string) (string, bool) {
	if n == nil {
		return "", false
	}
	if identKinds[n.Kind()] {
		return nodeText(n, src), true
	}
	if n.Kind() != chainKind {
		return "", false
	}
	object := n.ChildByFieldName(objectField)
	property := n.ChildByFieldName(propertyField)
	if property == nil {
		return "", false
	}
	prefix, ok := chainText(object, src, objectField, propertyField, identKinds, chainKind)
	if !ok {
		return "", false
	}
	return prefix + "." + nodeText(property, src), true
}
