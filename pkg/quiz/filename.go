package quiz

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// fallbackName stands in for names with no usable file element.
const fallbackName = "image"

// UniqueFilename stamps name with the Unix milliseconds of t:
// "photo.png" becomes "photo-1700000000000.png". Names without an
// extension get no extension. Directory components are dropped; a name
// with nothing left becomes "image-<millis>".
func UniqueFilename(name string, t time.Time) string {
	name = baseName(name)
	if name == "" {
		name = fallbackName
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%d%s", base, t.UnixMilli(), ext)
}

// baseName returns the last element of name, or "" when it has none.
func baseName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

// namer hands out filenames for one batch. Two images with the same name
// resolved in the same millisecond get consecutive stamps instead of
// overwriting each other.
type namer struct {
	now  time.Time
	used map[string]bool
}

func newNamer(now time.Time) *namer {
	return &namer{now: now, used: make(map[string]bool)}
}

func (n *namer) name(original string) string {
	t := n.now
	for {
		candidate := UniqueFilename(original, t)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
		t = t.Add(time.Millisecond)
	}
}
