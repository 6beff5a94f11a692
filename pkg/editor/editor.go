// Package editor performs in-memory search and replace over fetched text.
package editor

import (
	"regexp"
	"strings"

	"github.com/aretw0/quizsync/pkg/core"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize collapses every run of whitespace into a single space and trims the ends.
func Normalize(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Contains reports whether search occurs in content once both sides are normalized.
func Contains(content, search string) bool {
	return strings.Contains(Normalize(content), Normalize(search))
}

// Replace substitutes every match of the regular expression search in
// content with replacement, which may reference groups as $1 or ${name}.
//
// The presence check runs on whitespace-normalized text, while the
// substitution runs on the original content. A search that is only present
// once normalized therefore returns the content unchanged with a count of 0.
func Replace(content, search, replacement string) (string, int, error) {
	if strings.TrimSpace(search) == "" {
		return content, 0, core.Invalid("search", "must not be empty")
	}

	if !Contains(content, search) {
		return content, 0, &core.NotFoundError{Search: search}
	}

	re, err := regexp.Compile(search)
	if err != nil {
		return content, 0, core.Invalid("search", err.Error())
	}

	count := len(re.FindAllStringIndex(content, -1))
	if count == 0 {
		return content, 0, nil
	}
	return re.ReplaceAllString(content, replacement), count, nil
}
