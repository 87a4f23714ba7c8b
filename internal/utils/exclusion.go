package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	shellNegationPrefix = "[!"
	goNegationPrefix    = "[^"
)

// MatchName reports whether a bare entry name matches a shell-style glob.
// The shell negation form "[!...]" is accepted alongside "[^...]". A pattern
// that does not compile only matches a name equal to it.
func MatchName(pattern, name string) bool {
	translatedPattern := strings.ReplaceAll(pattern, shellNegationPrefix, goNegationPrefix)
	isMatched, matchError := filepath.Match(translatedPattern, name)
	if matchError != nil {
		return pattern == name
	}
	return isMatched
}

// ExclusionMatcher decides whether a directory entry stays visible.
// Patterns are always matched against the bare entry name, never the path.
type ExclusionMatcher struct {
	directoryNames map[string]struct{}
	filePatterns   []string
}

// NewExclusionMatcher builds a matcher from directory names and file patterns.
// Empty values are ignored.
func NewExclusionMatcher(excludeDirectoryNames []string, excludeFilePatterns []string) *ExclusionMatcher {
	matcher := &ExclusionMatcher{directoryNames: make(map[string]struct{}, len(excludeDirectoryNames))}
	for _, directoryName := range excludeDirectoryNames {
		if directoryName == "" {
			continue
		}
		matcher.directoryNames[directoryName] = struct{}{}
	}
	for _, filePattern := range DeduplicatePatterns(excludeFilePatterns) {
		if filePattern == "" {
			continue
		}
		matcher.filePatterns = append(matcher.filePatterns, filePattern)
	}
	return matcher
}

// ShouldExclude reports whether the entry called name, located at fullPath, is hidden.
// Directory rules apply only when fullPath is a directory after following links;
// file patterns apply to every entry.
func (matcher *ExclusionMatcher) ShouldExclude(name string, fullPath string) bool {
	if matcher == nil {
		return false
	}
	if matcher.matchesDirectoryRule(name) && isDirectory(fullPath) {
		return true
	}
	for _, filePattern := range matcher.filePatterns {
		if MatchName(filePattern, name) {
			return true
		}
	}
	return false
}

func (matcher *ExclusionMatcher) matchesDirectoryRule(name string) bool {
	if _, exactMatch := matcher.directoryNames[name]; exactMatch {
		return true
	}
	for directoryPattern := range matcher.directoryNames {
		if MatchName(directoryPattern, name) {
			return true
		}
	}
	return false
}

func isDirectory(path string) bool {
	fileInformation, statError := os.Stat(path)
	return statError == nil && fileInformation.IsDir()
}
