package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codeshift/pkg/parser"
)

// enryLanguages maps linguist language names to parser grammars.
var enryLanguages = map[string]string{
	"JavaScript": parser.LangJavaScript,
	"JSX":        parser.LangJavaScript,
	"TypeScript": parser.LangTypeScript,
	"TSX":        parser.LangTSX,
}

// Discover expands roots into the list of files to transform. Directories are
// walked recursively, skipping excluded directory names and vendored files,
// and keeping files with a configured extension. Files named explicitly are
// always kept. The result is sorted and free of duplicates.
func (d *Driver) Discover(roots []string) ([]string, error) {
	var files []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, filepath.Clean(root))

			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if entry.IsDir() {
				if path != root && d.excluded(entry.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}

			if d.wanted(rel) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func (d *Driver) excluded(name string) bool {
	for _, pattern := range d.opts.Exclude {
		if name == pattern {
			return true
		}

		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}

// wanted reports whether the file at rel, relative to the walk root, is a
// transform candidate.
func (d *Driver) wanted(rel string) bool {
	if enry.IsVendor(filepath.ToSlash(rel)) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(rel))

	return slices.Contains(d.opts.Extensions, ext)
}

// detectLanguage picks the grammar for path: by extension first, then by
// linguist detection over the content.
func detectLanguage(path string, content []byte) (string, bool) {
	if lang, ok := parser.LanguageForFile(path); ok {
		return lang, true
	}

	lang, ok := enryLanguages[enry.GetLanguage(filepath.Base(path), content)]

	return lang, ok
}
