package model

// Canonical schema shared by every language handler. All extraction output maps
// into these shapes regardless of source language; optional fields are pointers
// so they serialize as omitted/null rather than "".

// ParameterInfo describes a single function parameter in positional order.
type ParameterInfo struct {
	Name    string  `json:"name" yaml:"name"`
	Type    *string `json:"type,omitempty" yaml:"type,omitempty"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// VariableInfo describes a variable, class attribute, or function local.
// Type is the source-annotated type when one was written; Value is the literal
// text of the initializer when it is syntactically simple (single line).
type VariableInfo struct {
	Name  string  `json:"name" yaml:"name"`
	Type  *string `json:"type,omitempty" yaml:"type,omitempty"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// FunctionInfo describes a function or method. Line numbers are 1-based and
// inclusive. Calls preserves invocation order including duplicates.
type FunctionInfo struct {
	Name       string          `json:"name" yaml:"name"`
	StartLine  int             `json:"start_line" yaml:"start_line"`
	EndLine    int             `json:"end_line" yaml:"end_line"`
	Parameters []ParameterInfo `json:"parameters" yaml:"parameters"`
	LocalVars  []VariableInfo  `json:"local_vars" yaml:"local_vars"`
	Calls      []string        `json:"calls" yaml:"calls"`
}

// ClassInfo describes a class (or the closest construct the source language
// has: struct, impl block, etc.). Methods share the FunctionInfo shape; a
// method's call list is computed relative to its own body only.
type ClassInfo struct {
	Name       string         `json:"name" yaml:"name"`
	StartLine  int            `json:"start_line" yaml:"start_line"`
	EndLine    int            `json:"end_line" yaml:"end_line"`
	Attributes []VariableInfo `json:"attributes" yaml:"attributes"`
	Methods    []FunctionInfo `json:"methods" yaml:"methods"`
}

// FileRecord is the per-file unit of the output document. FilePath is the
// unique key within a document; records are immutable once built.
type FileRecord struct {
	FilePath          string         `json:"file_path" yaml:"file_path"`
	TopLevelVariables []VariableInfo `json:"top_level_variables" yaml:"top_level_variables"`
	Functions         []FunctionInfo `json:"functions" yaml:"functions"`
	Classes           []ClassInfo    `json:"classes" yaml:"classes"`
}

// NewFileRecord returns a FileRecord with empty (non-nil) collections so the
// serialized form always carries [] rather than null.
func NewFileRecord(filePath string) *FileRecord {
	return &FileRecord{
		FilePath:          filePath,
		TopLevelVariables: []VariableInfo{},
		Functions:         []FunctionInfo{},
		Classes:           []ClassInfo{},
	}
}

// Document is the single artifact of an analysis run: an ordered sequence of
// FileRecords sorted lexicographically by file_path. It deliberately carries
// no timestamp so identical input produces byte-identical output.
type Document struct {
	Generator string       `json:"generator" yaml:"generator"`
	Version   string       `json:"version" yaml:"version"`
	Files     []FileRecord `json:"files" yaml:"files"`
}

// String returns a pointer to s. Convenience for optional schema fields.
func String(s string) *string {
	return &s
}
