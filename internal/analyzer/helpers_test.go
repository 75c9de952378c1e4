package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"codescope/internal/model"
)

// testRegistry is shared across tests; the registry is read-only after
// construction, so parallel subtests can use it freely.
var testRegistry = NewRegistry()

// analyzeString runs the full single-file pipeline over an in-memory source.
func analyzeString(t *testing.T, path, source string) *model.FileRecord {
	t.Helper()

	handler, err := testRegistry.Resolve(path, "")
	require.NoError(t, err)

	record, err := AnalyzeSource(handler, path, []byte(source))
	require.NoError(t, err)
	require.NotNil(t, record)
	return record
}

// findFunction returns the named function from a slice, failing the test when
// it is absent.
func findFunction(t *testing.T, functions []model.FunctionInfo, name string) model.FunctionInfo {
	t.Helper()
	for _, fn := range functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found in %v", name, functionNames(functions))
	return model.FunctionInfo{}
}

// findClass returns the named class from a slice, failing the test when it is
// absent.
func findClass(t *testing.T, classes []model.ClassInfo, name string) model.ClassInfo {
	t.Helper()
	for _, cls := range classes {
		if cls.Name == name {
			return cls
		}
	}
	t.Fatalf("class %q not found", name)
	return model.ClassInfo{}
}

func functionNames(functions []model.FunctionInfo) []string {
	names := make([]string, 0, len(functions))
	for _, fn := range functions {
		names = append(names, fn.Name)
	}
	return names
}

func variableNames(vars []model.VariableInfo) []string {
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	return names
}

// deref converts an optional field to a comparable value for assertions.
func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
