package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for C extraction:
// - Top-level declarations become variables with type and initializer
// - Named struct definitions map to the class shape with fields as attributes
// - Bare struct type references (struct point p;) do not create classes
// - Function definitions report declarator-derived names and parameters,
//   including pointer declarators
// - Prototypes declare no variables
// - Call expressions record plain identifiers and s.field chains

const cSample = `#include <stdio.h>

int counter = 0;
char *label = "start";

struct point {
    int x;
    int y;
};

int add(int a, int b) {
    int sum = a + b;
    printf("%d\n", sum);
    return sum;
}

void reset(struct point *p) {
    p->x = 0;
    p->y = 0;
}
`

func TestC_TopLevelVariables(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.c", cSample)

	require.Len(t, record.TopLevelVariables, 2)

	counter := record.TopLevelVariables[0]
	assert.Equal(t, "counter", counter.Name)
	assert.Equal(t, "int", deref(counter.Type))
	assert.Equal(t, "0", deref(counter.Value))

	label := record.TopLevelVariables[1]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, "char", deref(label.Type))
	assert.Equal(t, `"start"`, deref(label.Value))
}

func TestC_StructMapsToClassShape(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.c", cSample)

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "point", cls.Name)
	assert.Equal(t, 6, cls.StartLine)
	assert.Equal(t, 9, cls.EndLine)
	assert.Equal(t, []string{"x", "y"}, variableNames(cls.Attributes))
	assert.Empty(t, cls.Methods)
}

func TestC_FunctionExtraction(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.c", cSample)

	add := findFunction(t, record.Functions, "add")
	assert.Equal(t, 11, add.StartLine)
	assert.Equal(t, 15, add.EndLine)
	require.Len(t, add.Parameters, 2)
	assert.Equal(t, "a", add.Parameters[0].Name)
	assert.Equal(t, "int", deref(add.Parameters[0].Type))
	assert.Equal(t, "b", add.Parameters[1].Name)

	require.Len(t, add.LocalVars, 1)
	assert.Equal(t, "sum", add.LocalVars[0].Name)
	assert.Equal(t, "a + b", deref(add.LocalVars[0].Value))

	assert.Equal(t, []string{"printf"}, add.Calls)

	reset := findFunction(t, record.Functions, "reset")
	require.Len(t, reset.Parameters, 1)
	// Pointer declarators unwrap to the identifier.
	assert.Equal(t, "p", reset.Parameters[0].Name)
}

func TestC_PrototypeDeclaresNoVariable(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "proto.h", `int compute(int input);

extern int shared;
`)

	assert.Equal(t, []string{"shared"}, variableNames(record.TopLevelVariables))
	assert.Empty(t, record.Functions)
}

func TestC_FieldExpressionCall(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "ops.c", `void dispatch(struct handler *h) {
    h->init();
}
`)

	dispatch := findFunction(t, record.Functions, "dispatch")
	assert.Equal(t, []string{"h.init"}, dispatch.Calls)
}
