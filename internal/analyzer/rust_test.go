package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Rust extraction:
// - const/static items become top-level variables with type and value
// - let declarations become locals; initializer calls are recorded
// - Macro invocations record with a trailing bang (println!)
// - Structs map to the class shape with fields as attributes
// - impl blocks map to a separate class entry carrying the methods
// - Computed callees like (expr).method() are rejected
// - Closures are dropped

const rustSample = `const LIMIT: u32 = 10;

fn compute(input: u32) -> u32 {
    let doubled = input * 2;
    let result: u32 = helper(doubled);
    println!("{}", result);
    result
}

struct Point {
    x: f64,
    y: f64,
}

impl Point {
    fn new(x: f64, y: f64) -> Point {
        Point { x, y }
    }

    fn scaled(&self, factor: f64) -> f64 {
        let base = self.x;
        base * factor
    }
}
`

func TestRust_TopLevelAndFunctions(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.rs", rustSample)

	require.Len(t, record.TopLevelVariables, 1)
	limit := record.TopLevelVariables[0]
	assert.Equal(t, "LIMIT", limit.Name)
	assert.Equal(t, "u32", deref(limit.Type))
	assert.Equal(t, "10", deref(limit.Value))

	compute := findFunction(t, record.Functions, "compute")
	assert.Equal(t, 3, compute.StartLine)
	assert.Equal(t, 8, compute.EndLine)
	require.Len(t, compute.Parameters, 1)
	assert.Equal(t, "input", compute.Parameters[0].Name)
	assert.Equal(t, "u32", deref(compute.Parameters[0].Type))

	require.Len(t, compute.LocalVars, 2)
	assert.Equal(t, "doubled", compute.LocalVars[0].Name)
	assert.Equal(t, "input * 2", deref(compute.LocalVars[0].Value))
	assert.Equal(t, "result", compute.LocalVars[1].Name)
	assert.Equal(t, "u32", deref(compute.LocalVars[1].Type))
	assert.Equal(t, "helper(doubled)", deref(compute.LocalVars[1].Value))

	assert.Equal(t, []string{"helper", "println!"}, compute.Calls)
}

func TestRust_StructAndImplAreSeparateEntries(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.rs", rustSample)

	require.Len(t, record.Classes, 2)

	structEntry := record.Classes[0]
	assert.Equal(t, "Point", structEntry.Name)
	assert.Equal(t, []string{"x", "y"}, variableNames(structEntry.Attributes))
	assert.Empty(t, structEntry.Methods)

	implEntry := record.Classes[1]
	assert.Equal(t, "Point", implEntry.Name)
	assert.Empty(t, implEntry.Attributes)
	assert.Equal(t, []string{"new", "scaled"}, functionNames(implEntry.Methods))

	scaled := findFunction(t, implEntry.Methods, "scaled")
	require.Len(t, scaled.Parameters, 2)
	assert.Equal(t, "self", scaled.Parameters[0].Name)
	assert.Equal(t, "factor", scaled.Parameters[1].Name)
	assert.Equal(t, []string{"base"}, variableNames(scaled.LocalVars))
}

func TestRust_ComputedCalleeRejected(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "computed.rs", `fn roundabout(v: Vec<u32>) -> u32 {
    let first = v[0];
    (first + 1).wrapping_add(2)
}
`)

	roundabout := findFunction(t, record.Functions, "roundabout")
	// (first + 1).wrapping_add has a computed receiver and is dropped.
	assert.Empty(t, roundabout.Calls)
}

func TestRust_ClosureDropped(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "closures.rs", `fn apply(values: Vec<u32>) -> Vec<u32> {
    values.iter().map(|v| hidden(v)).collect()
}
`)

	apply := findFunction(t, record.Functions, "apply")
	assert.NotContains(t, apply.Calls, "hidden")
}
