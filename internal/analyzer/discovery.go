package analyzer

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// compiledPattern holds both the pattern string and its compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a directory tree and selects the source files to analyze.
// Selection layers, in order: the root's .gitignore (when present), explicit
// ignore patterns, explicit include patterns, and finally the extension set
// of the enabled languages.
type Discovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
	gitIgnore       *gitignore.GitIgnore
	extensions      map[string]bool
}

// NewDiscovery compiles the pattern sets for a root directory. An empty
// include list means every file with a supported extension qualifies.
func NewDiscovery(rootDir string, includePatterns, ignorePatterns, extensions []string) (*Discovery, error) {
	d := &Discovery{
		rootDir:    rootDir,
		extensions: make(map[string]bool, len(extensions)),
	}
	for _, ext := range extensions {
		d.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.includePatterns = append(d.includePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		d.gitIgnore = gi
	}

	return d, nil
}

// Discover walks the tree and returns the selected files as slash-normalized
// paths relative to the root, in walk order.
func (d *Discovery) Discover() ([]string, error) {
	var files []string

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Selects(relPath) {
			files = append(files, relPath)
		}
		return nil
	})

	return files, err
}

// Selects reports whether a slash-normalized relative path passes every
// selection layer. The watcher reuses it to filter change events.
func (d *Discovery) Selects(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	if !d.extensions[strings.ToLower(filepath.Ext(relPath))] {
		return false
	}
	if len(d.includePatterns) == 0 {
		return true
	}
	return d.matchesAnyPattern(relPath, d.includePatterns)
}

func (d *Discovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".git/") || relPath == ".git" {
		return true
	}
	if d.gitIgnore != nil && d.gitIgnore.MatchesPath(relPath) {
		return true
	}
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// A directory ignore like "vendor/**" should also suppress the directory
	// entry itself during the walk.
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// "**/*.py" should match root-level "main.py" too, the way users expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
