package archive

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExcludes returns the built-in exclusion patterns: the virtualenv,
// Python bytecode and caches, backup files, saved benchmark results, VCS
// metadata and log files.
func DefaultExcludes() []string {
	return []string{
		"env",
		"__pycache__",
		"*.pyc",
		"*.pyo",
		"*.bak",
		"benchmark_results.json",
		"bm25_benchmark_results.json",
		"hybrid_benchmark_results.json",
		".git",
		".gitignore",
		"*.log",
	}
}

// ExcludeSet matches project-relative paths against glob patterns with
// tar-style semantics: a pattern without a path separator is tried against
// every path component, a pattern with a separator against the whole
// relative path. Invalid patterns never match.
type ExcludeSet struct {
	patterns []string
}

// NewExcludeSet builds an ExcludeSet from the given patterns.
func NewExcludeSet(patterns ...string) *ExcludeSet {
	return &ExcludeSet{patterns: patterns}
}

// Match reports whether relPath (relative to the project root) is excluded.
// Matching a directory is expected to prune its whole subtree; callers skip
// descent when Match returns true for a directory.
func (s *ExcludeSet) Match(relPath string) bool {
	if s == nil || relPath == "" || relPath == "." {
		return false
	}
	relPath = path.Clean(filepath.ToSlash(relPath))
	for _, pattern := range s.patterns {
		if strings.ContainsRune(pattern, '/') {
			if ok, err := path.Match(pattern, relPath); err == nil && ok {
				return true
			}
			continue
		}
		for _, component := range strings.Split(relPath, "/") {
			if ok, err := path.Match(pattern, component); err == nil && ok {
				return true
			}
		}
	}
	return false
}
