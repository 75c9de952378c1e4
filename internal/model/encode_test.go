package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test Plan for the canonical document encoding:
// - JSON field names match the schema exactly (file_path, start_line, ...)
// - Optional fields are omitted when unset, never ""
// - Empty collections serialize as [] rather than null
// - Encoding the same document twice is byte-identical
// - YAML round-trips the same structure
// - ParseFormat accepts json/yaml case-insensitively and rejects the rest
// - WriteFile writes atomically and leaves no temp file behind

func sampleDocument() *Document {
	rec := NewFileRecord("src/app.py")
	rec.TopLevelVariables = append(rec.TopLevelVariables, VariableInfo{
		Name:  "GLOBAL_CONST",
		Type:  String("int"),
		Value: String("100"),
	})
	rec.Functions = append(rec.Functions, FunctionInfo{
		Name:      "greet",
		StartLine: 5,
		EndLine:   8,
		Parameters: []ParameterInfo{
			{Name: "name", Type: String("str")},
			{Name: "greeting", Type: String("str"), Default: String(`"Hello"`)},
		},
		LocalVars: []VariableInfo{{Name: "message"}},
		Calls:     []string{"print"},
	})
	rec.Classes = append(rec.Classes, ClassInfo{
		Name:       "Calculator",
		StartLine:  10,
		EndLine:    20,
		Attributes: []VariableInfo{{Name: "value"}},
		Methods:    []FunctionInfo{},
	})

	return &Document{Generator: "codescope", Version: "test", Files: []FileRecord{*rec}}
}

func TestEncode_JSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := sampleDocument().Encode(FormatJSON)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"file_path"`)
	assert.Contains(t, text, `"top_level_variables"`)
	assert.Contains(t, text, `"start_line"`)
	assert.Contains(t, text, `"end_line"`)
	assert.Contains(t, text, `"local_vars"`)
	assert.Contains(t, text, `"default"`)
	assert.NotContains(t, text, `"FilePath"`)
}

func TestEncode_OptionalFieldsOmitted(t *testing.T) {
	t.Parallel()

	data, err := sampleDocument().Encode(FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	files := decoded["files"].([]any)
	file := files[0].(map[string]any)
	fn := file["functions"].([]any)[0].(map[string]any)
	params := fn["parameters"].([]any)

	// name has a type but no default; the key must be absent entirely.
	first := params[0].(map[string]any)
	assert.Equal(t, "str", first["type"])
	_, hasDefault := first["default"]
	assert.False(t, hasDefault)

	// message has neither type nor value.
	local := fn["local_vars"].([]any)[0].(map[string]any)
	_, hasType := local["type"]
	_, hasValue := local["value"]
	assert.False(t, hasType)
	assert.False(t, hasValue)
}

func TestEncode_EmptyCollectionsAreArrays(t *testing.T) {
	t.Parallel()

	doc := &Document{Generator: "codescope", Version: "test", Files: []FileRecord{*NewFileRecord("empty.py")}}
	data, err := doc.Encode(FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	file := decoded["files"].([]any)[0].(map[string]any)

	for _, key := range []string{"top_level_variables", "functions", "classes"} {
		value, ok := file[key]
		require.True(t, ok, key)
		assert.IsType(t, []any{}, value, key)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	first, err := doc.Encode(FormatJSON)
	require.NoError(t, err)
	second, err := doc.Encode(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstYAML, err := doc.Encode(FormatYAML)
	require.NoError(t, err)
	secondYAML, err := doc.Encode(FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, firstYAML, secondYAML)
}

func TestEncode_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	data, err := doc.Encode(FormatYAML)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Files[0].FilePath, decoded.Files[0].FilePath)
	assert.Equal(t, doc.Files[0].Functions[0].Parameters, decoded.Files[0].Functions[0].Parameters)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"json", "JSON", "yaml", "Yaml"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteFile_Atomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, sampleDocument().WriteFile(path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file_path"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
