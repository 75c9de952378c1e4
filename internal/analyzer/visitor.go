package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codescope/internal/model"
)

// visitor walks a syntax tree exactly once, depth first, translating nodes
// into raw facts via the handler's rule table and attaching each fact to the
// scope on top of the stack. Each visitor owns its tree and stack exclusively,
// so per-file extraction is safe to run in parallel.
type visitor struct {
	rules  *ruleSet
	src    []byte
	stack  *scopeStack
	record *model.FileRecord
}

// extractRecord runs the extraction pass for one parsed file. The returned
// record is raw: the canonical model builder still clips and dedupes it.
func extractRecord(h *Handler, root *sitter.Node, filePath string, src []byte) *model.FileRecord {
	v := &visitor{
		rules:  h.rules,
		src:    src,
		stack:  newScopeStack(),
		record: model.NewFileRecord(filePath),
	}
	v.walk(root)
	return v.record
}

func (v *visitor) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	// Parse recovery regions carry no reliable structure. The surrounding
	// declarations were already closed at the recovery boundary; everything
	// inside the error node is dropped.
	if n.Kind() == "ERROR" {
		return
	}

	switch v.rules.kinds[n.Kind()] {
	case actionFunction:
		v.visitFunction(funcFact{name: v.rules.functionName(n, v.src), node: n, decl: n})

	case actionClass:
		v.visitClass(n)

	case actionVariable:
		vars, fns := v.rules.variables(n, v.src)
		for _, fact := range vars {
			v.emitVariable(fact)
		}
		for _, fn := range fns {
			v.visitFunction(fn)
		}
		// Initializers may contain calls; keep descending. Function-valued
		// bindings are safe to revisit because their closure kinds map to
		// actionSkip.
		v.walkChildren(n)

	case actionCall:
		if callee, ok := v.rules.callee(n, v.src); ok {
			if fn := v.stack.nearestFunction(); fn != nil {
				fn.fn.Calls = append(fn.fn.Calls, callee)
			}
		}
		// Arguments can hold further calls and declarations.
		v.walkChildren(n)

	case actionSkip:
		return

	default:
		v.walkChildren(n)
	}
}

func (v *visitor) walkChildren(n *sitter.Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		v.walk(n.Child(i))
	}
}

// visitFunction opens a function scope, extracts the signature, walks the
// body, and hands the finished FunctionInfo to its owner. Anonymous functions
// are dropped wholesale: the schema requires a name, and their bodies must not
// leak locals or calls into the enclosing function.
func (v *visitor) visitFunction(f funcFact) {
	if f.name == "" {
		return
	}

	fn := &model.FunctionInfo{
		Name:       f.name,
		StartLine:  startLine(f.decl),
		EndLine:    endLine(f.decl),
		Parameters: []model.ParameterInfo{},
		LocalVars:  []model.VariableInfo{},
		Calls:      []string{},
	}

	var facts []paramFact
	params := map[string]bool{}
	if v.rules.parameters != nil {
		facts = v.rules.parameters(f.node, v.src)
		for _, p := range facts {
			if p.name == "" {
				continue
			}
			fn.Parameters = append(fn.Parameters, model.ParameterInfo{
				Name:    p.name,
				Type:    p.typ,
				Default: p.def,
			})
			params[p.name] = true
		}
	}

	parent := v.stack.top()
	frame := &scopeFrame{kind: scopeFunction, fn: fn, params: params}
	if parent.kind == scopeClass {
		if v.rules.constructorNames[f.name] || (v.rules.classNamedConstructor && f.name == parent.cls.Name) {
			frame.isConstructor = true
			frame.ownerClass = parent
		}
	}

	// Promoted constructor parameters are attributes as well as parameters.
	if frame.isConstructor {
		for _, p := range facts {
			if p.promote && p.name != "" {
				parent.cls.Attributes = append(parent.cls.Attributes, model.VariableInfo{
					Name:  p.name,
					Type:  p.typ,
					Value: p.def,
				})
			}
		}
	}

	v.stack.push(frame)
	if body := v.rules.functionBody(f.node, v.src); body != nil {
		v.walk(body)
	}
	v.stack.pop()

	// Nested functions isolate their locals but are not part of the canonical
	// document: only top-level functions and direct class methods surface.
	switch parent.kind {
	case scopeFile:
		v.record.Functions = append(v.record.Functions, *fn)
	case scopeClass:
		parent.cls.Methods = append(parent.cls.Methods, *fn)
	}
}

func (v *visitor) visitClass(n *sitter.Node) {
	name := v.rules.className(n, v.src)
	if name == "" {
		return
	}

	cls := &model.ClassInfo{
		Name:       name,
		StartLine:  startLine(n),
		EndLine:    endLine(n),
		Attributes: []model.VariableInfo{},
		Methods:    []model.FunctionInfo{},
	}

	v.stack.push(&scopeFrame{kind: scopeClass, cls: cls})
	if body := v.rules.classBody(n, v.src); body != nil {
		v.walk(body)
	}
	v.stack.pop()

	if v.stack.top().kind == scopeFile {
		v.record.Classes = append(v.record.Classes, *cls)
	}
}

// emitVariable routes a declaration fact to the scope that owns it: the
// nearest enclosing function for locals (nested blocks included), the class
// for body-level attributes, the file otherwise.
func (v *visitor) emitVariable(fact varFact) {
	if fact.memberOf != "" {
		v.promoteMember(fact)
		return
	}
	if fact.name == "" {
		return
	}

	info := model.VariableInfo{Name: fact.name, Type: fact.typ, Value: fact.value}

	frame := v.stack.top()
	switch frame.kind {
	case scopeFunction:
		if frame.params[fact.name] {
			return
		}
		frame.fn.LocalVars = append(frame.fn.LocalVars, info)
	case scopeClass:
		frame.cls.Attributes = append(frame.cls.Attributes, info)
	default:
		v.record.TopLevelVariables = append(v.record.TopLevelVariables, info)
	}
}

// promoteMember turns `this.<name> = <param>` style constructor assignments
// into class attributes. Ordinary member assignments (outside a constructor,
// on another receiver, or with a computed right-hand side) are not
// declarations and are ignored.
func (v *visitor) promoteMember(fact varFact) {
	frame := v.stack.nearestFunction()
	if frame == nil || !frame.isConstructor || frame.ownerClass == nil {
		return
	}
	if !v.rules.selfNames[fact.memberOf] {
		return
	}
	if fact.rhsIdent == "" || !frame.params[fact.rhsIdent] {
		return
	}

	frame.ownerClass.cls.Attributes = append(frame.ownerClass.cls.Attributes, model.VariableInfo{
		Name:  fact.name,
		Type:  fact.typ,
		Value: fact.value,
	})
}
