package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codescope/internal/model"
)

// Test Plan for canonical record assembly:
// - Function ranges clip into [1, lineCount]
// - Method ranges clip into their class's range
// - start > end collapses to start == end after clipping
// - Duplicate variable and parameter names dedupe first-wins per scope
// - Same names in different scopes are kept

func TestBuildRecord_ClipsFunctionRanges(t *testing.T) {
	t.Parallel()

	rec := model.NewFileRecord("clip.py")
	rec.Functions = []model.FunctionInfo{
		{Name: "f", StartLine: 0, EndLine: 99, Parameters: []model.ParameterInfo{}, LocalVars: []model.VariableInfo{}, Calls: []string{}},
	}
	buildRecord(rec, 10)

	assert.Equal(t, 1, rec.Functions[0].StartLine)
	assert.Equal(t, 10, rec.Functions[0].EndLine)
}

func TestBuildRecord_ClipsMethodIntoClass(t *testing.T) {
	t.Parallel()

	rec := model.NewFileRecord("clip.py")
	rec.Classes = []model.ClassInfo{{
		Name: "C", StartLine: 5, EndLine: 12,
		Attributes: []model.VariableInfo{},
		Methods: []model.FunctionInfo{
			{Name: "m", StartLine: 3, EndLine: 20, Parameters: []model.ParameterInfo{}, LocalVars: []model.VariableInfo{}, Calls: []string{}},
		},
	}}
	buildRecord(rec, 15)

	cls := rec.Classes[0]
	assert.Equal(t, 5, cls.StartLine)
	assert.Equal(t, 12, cls.EndLine)
	assert.Equal(t, 5, cls.Methods[0].StartLine)
	assert.Equal(t, 12, cls.Methods[0].EndLine)
}

func TestBuildRecord_InvertedRangeCollapses(t *testing.T) {
	t.Parallel()

	start, end := clipRange(8, 4, 1, 10)
	assert.Equal(t, 8, start)
	assert.Equal(t, 8, end)
}

func TestBuildRecord_DedupesFirstWins(t *testing.T) {
	t.Parallel()

	rec := model.NewFileRecord("dupes.py")
	rec.TopLevelVariables = []model.VariableInfo{
		{Name: "x", Value: model.String("1")},
		{Name: "x", Value: model.String("2")},
		{Name: "y"},
	}
	rec.Functions = []model.FunctionInfo{{
		Name: "f", StartLine: 1, EndLine: 3,
		Parameters: []model.ParameterInfo{{Name: "a"}, {Name: "a"}},
		LocalVars:  []model.VariableInfo{{Name: "x"}},
		Calls:      []string{"g", "g"},
	}}
	buildRecord(rec, 5)

	assert.Equal(t, []string{"x", "y"}, variableNames(rec.TopLevelVariables))
	assert.Equal(t, "1", deref(rec.TopLevelVariables[0].Value))

	fn := rec.Functions[0]
	assert.Len(t, fn.Parameters, 1)
	// The function-scoped x is independent of the top-level x.
	assert.Equal(t, []string{"x"}, variableNames(fn.LocalVars))
	// Calls are not deduplicated.
	assert.Equal(t, []string{"g", "g"}, fn.Calls)
}
