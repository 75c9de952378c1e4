package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for parsing and degradation:
// - Valid input produces a tree and a populated record
// - Malformed regions degrade: recovered declarations still surface, the
//   broken region is dropped, and no panic occurs
// - Empty files produce an empty record rather than an error
// - Line ranges never exceed the file's line count

func TestParse_EmptyFile(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "empty.py", "")

	assert.Empty(t, record.TopLevelVariables)
	assert.Empty(t, record.Functions)
	assert.Empty(t, record.Classes)
}

func TestParse_MalformedRegionDropped(t *testing.T) {
	t.Parallel()

	// The first function is intact; the second is torn. Best effort keeps
	// the intact one and never panics.
	record := analyzeString(t, "broken.py", `def intact():
    value = 1
    return value

def torn(:
    what
`)

	intact := findFunction(t, record.Functions, "intact")
	assert.Equal(t, []string{"value"}, variableNames(intact.LocalVars))
}

func TestParse_BinaryGarbageDoesNotPanic(t *testing.T) {
	t.Parallel()

	handler, err := testRegistry.Resolve("garbage.py", "")
	require.NoError(t, err)

	// Either outcome is acceptable: a degraded record or a ParseError.
	// The invariant is no panic and no nil-with-nil return.
	record, err := AnalyzeSource(handler, "garbage.py", []byte{0x00, 0xff, 0x01, 0xfe})
	if err != nil {
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	} else {
		assert.NotNil(t, record)
	}
}

func TestParse_LineRangesClippedToFile(t *testing.T) {
	t.Parallel()
	source := "def tail():\n    return 1"
	record := analyzeString(t, "tail.py", source)

	tail := findFunction(t, record.Functions, "tail")
	assert.Equal(t, 1, tail.StartLine)
	assert.Equal(t, 2, tail.EndLine)
}
