package analyzer

import (
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Handler pairs a tree-sitter grammar with its extraction rule table. One
// handler exists per language; JavaScript shares the TypeScript grammar as a
// dialect of the same family.
type Handler struct {
	Name     string
	Dialect  string
	language *sitter.Language
	rules    *ruleSet
}

// Registry maps language names and file extensions to grammar handlers. It is
// built once and read-only afterwards, so it can be shared across the
// parallel per-file pipelines without locking.
type Registry struct {
	byName map[string]*Handler
	byExt  map[string]*Handler
}

// NewRegistry builds the registry with every supported language. Adding a
// language is a pure extension: register one handler here, nothing else
// changes.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Handler),
		byExt:  make(map[string]*Handler),
	}

	tsLang := sitter.NewLanguage(tstypescript.LanguageTypescript())
	tsxLang := sitter.NewLanguage(tstypescript.LanguageTSX())

	r.register(&Handler{
		Name:     "python",
		language: sitter.NewLanguage(tspython.Language()),
		rules:    pythonRules(),
	}, ".py")
	r.register(&Handler{
		Name:     "typescript",
		Dialect:  "ts",
		language: tsLang,
		rules:    typescriptRules(),
	}, ".ts")
	r.register(&Handler{
		Name:     "typescript",
		Dialect:  "tsx",
		language: tsxLang,
		rules:    typescriptRules(),
	}, ".tsx")
	// JavaScript reuses the TypeScript grammar; type annotations simply never
	// appear in the tree.
	r.register(&Handler{
		Name:     "javascript",
		Dialect:  "js",
		language: tsLang,
		rules:    typescriptRules(),
	}, ".js", ".jsx", ".mjs")
	r.register(&Handler{
		Name:     "java",
		language: sitter.NewLanguage(tsjava.Language()),
		rules:    javaRules(),
	}, ".java")
	r.register(&Handler{
		Name:     "ruby",
		language: sitter.NewLanguage(tsruby.Language()),
		rules:    rubyRules(),
	}, ".rb")
	r.register(&Handler{
		Name:     "rust",
		language: sitter.NewLanguage(tsrust.Language()),
		rules:    rustRules(),
	}, ".rs")
	r.register(&Handler{
		Name:     "c",
		language: sitter.NewLanguage(tsc.Language()),
		rules:    cRules(),
	}, ".c", ".h")
	r.register(&Handler{
		Name:     "php",
		language: sitter.NewLanguage(tsphp.LanguagePHP()),
		rules:    phpRules(),
	}, ".php")

	return r
}

func (r *Registry) register(h *Handler, exts ...string) {
	if _, exists := r.byName[h.Name]; !exists {
		r.byName[h.Name] = h
	}
	for _, ext := range exts {
		r.byExt[ext] = h
	}
}

// Resolve returns the handler for a file, using the explicit language hint
// when given and the extension otherwise.
func (r *Registry) Resolve(path, hint string) (*Handler, error) {
	if hint != "" {
		if h, ok := r.byName[strings.ToLower(hint)]; ok {
			return h, nil
		}
		return nil, &UnsupportedLanguageError{Path: path, Hint: hint}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if h, ok := r.byExt[ext]; ok {
		return h, nil
	}
	return nil, &UnsupportedLanguageError{Path: path, Ext: ext}
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the file extensions handled by the given languages.
// An empty language set means all registered languages.
func (r *Registry) Extensions(languages []string) []string {
	enabled := make(map[string]bool, len(languages))
	for _, lang := range languages {
		enabled[strings.ToLower(lang)] = true
	}

	exts := make([]string, 0, len(r.byExt))
	for ext, h := range r.byExt {
		if len(languages) == 0 || enabled[h.Name] {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
