package analyzer

import "codescope/internal/model"

// scopeKind identifies the lexical region a frame tracks.
type scopeKind int

const (
	scopeFile scopeKind = iota
	scopeFunction
	scopeClass
)

// scopeFrame is one entry of the visitor's scope stack. Exactly one of fn or
// cls is set for non-file frames. Frames are pushed when the visitor enters a
// function, method, or class body and popped on exit; every discovered symbol
// attaches to the frame on top of the stack at emission time.
type scopeFrame struct {
	kind scopeKind
	fn   *model.FunctionInfo
	cls  *model.ClassInfo

	// params holds the parameter names of a function frame so locals that
	// shadow parameters are not double-reported.
	params map[string]bool

	// isConstructor marks a method frame whose member assignments may promote
	// parameters to class attributes.
	isConstructor bool

	// ownerClass points at the class frame a constructor promotes into.
	ownerClass *scopeFrame
}

// scopeStack is a plain LIFO of frames. The bottom frame is always the file.
type scopeStack struct {
	frames []*scopeFrame
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: []*scopeFrame{{kind: scopeFile}}}
}

func (s *scopeStack) push(f *scopeFrame) {
	s.frames = append(s.frames, f)
}

func (s *scopeStack) pop() *scopeFrame {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// top returns the innermost frame.
func (s *scopeStack) top() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

// nearestFunction returns the innermost function frame, or nil when the
// current position is outside any function body. Calls attach here; a call at
// file or class level has no owner in the canonical schema and is dropped.
func (s *scopeStack) nearestFunction() *scopeFrame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].kind == scopeFunction {
			return s.frames[i]
		}
	}
	return nil
}
