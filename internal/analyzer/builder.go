package analyzer

import "codescope/internal/model"

// buildRecord finalizes a raw extraction into a canonical FileRecord:
// line ranges are clipped into the file, method ranges are clipped into their
// class, and names are deduplicated within each owning scope (first
// declaration wins). Grammar inconsistencies degrade to the tightest
// consistent interpretation instead of failing the file.
func buildRecord(rec *model.FileRecord, lineCount int) *model.FileRecord {
	if lineCount < 1 {
		lineCount = 1
	}

	rec.TopLevelVariables = dedupeVariables(rec.TopLevelVariables)

	for i := range rec.Functions {
		finishFunction(&rec.Functions[i], 1, lineCount)
	}

	for i := range rec.Classes {
		cls := &rec.Classes[i]
		cls.StartLine, cls.EndLine = clipRange(cls.StartLine, cls.EndLine, 1, lineCount)
		cls.Attributes = dedupeVariables(cls.Attributes)
		for j := range cls.Methods {
			finishFunction(&cls.Methods[j], cls.StartLine, cls.EndLine)
		}
	}

	return rec
}

func finishFunction(fn *model.FunctionInfo, lo, hi int) {
	fn.StartLine, fn.EndLine = clipRange(fn.StartLine, fn.EndLine, lo, hi)
	fn.Parameters = dedupeParameters(fn.Parameters)
	fn.LocalVars = dedupeVariables(fn.LocalVars)
}

// clipRange forces start ≤ end and both into [lo, hi].
func clipRange(start, end, lo, hi int) (int, int) {
	if start < lo {
		start = lo
	}
	if start > hi {
		start = hi
	}
	if end > hi {
		end = hi
	}
	if end < start {
		end = start
	}
	return start, end
}

func dedupeVariables(vars []model.VariableInfo) []model.VariableInfo {
	seen := make(map[string]bool, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	return out
}

func dedupeParameters(params []model.ParameterInfo) []model.ParameterInfo {
	seen := make(map[string]bool, len(params))
	out := params[:0]
	for _, p := range params {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out
}
