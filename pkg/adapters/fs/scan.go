// Package fs provides the local-disk side of quizsync: collecting asset
// files for upload, saving fetched files, and watching an asset directory.
package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/quiz"
)

// DefaultPattern matches every file below the root.
const DefaultPattern = "**/*"

// Scan returns the slash-separated paths, relative to root, of the regular
// files matching pattern. Results are sorted.
func Scan(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, core.Invalid("pattern", fmt.Sprintf("%q is not a valid glob", pattern))
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	out := matches[:0]
	for _, m := range matches {
		if isTemp(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// ItemOptions controls how local files become upload items.
type ItemOptions struct {
	// Directory is the remote directory the files land in. Subdirectories
	// below the scan root are kept.
	Directory string
	// Stamp appends the Unix milliseconds of Now to every filename.
	Stamp bool
	Now   time.Time
}

// Items reads the files at rels (relative to root) into upload items.
// The item ID is the relative path.
func Items(root string, rels []string, opts ItemOptions) ([]core.AssetUploadItem, error) {
	items := make([]core.AssetUploadItem, 0, len(rels))
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", rel, err)
		}

		dir, name := path.Split(rel)
		if opts.Stamp {
			name = quiz.UniqueFilename(name, opts.Now)
		}
		items = append(items, core.AssetUploadItem{
			ID:        rel,
			Payload:   data,
			Filename:  name,
			Directory: path.Join(opts.Directory, dir),
		})
	}
	return items, nil
}

// Collect is Scan followed by Items.
func Collect(root, pattern string, opts ItemOptions) ([]core.AssetUploadItem, error) {
	rels, err := Scan(root, pattern)
	if err != nil {
		return nil, err
	}
	return Items(root, rels, opts)
}

func isTemp(p string) bool {
	return strings.HasPrefix(path.Base(p), TempFilePrefix)
}
