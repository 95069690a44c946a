// Package walk discovers indexable files under a folder root: it descends
// directories in a fixed skip order, honors .gitignore, and stops at
// extension/size filters — grounded on the teacher's gobwas/glob-based
// discovery, generalized to the gitignore-aware walk the original
// implementation performs.
package walk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codesight/codesight/internal/codesight"
	"github.com/codesight/codesight/internal/config"
	"github.com/gobwas/glob"
)

// File is one discovered file, with both its absolute and root-relative
// path so callers never need to re-derive either.
type File struct {
	AbsPath string
	RelPath string
	Size    int64
}

// Walker discovers indexable files under Root.
type Walker struct {
	Root string

	ignoreGlobs []glob.Glob
}

// New builds a Walker, loading .gitignore from the root if present.
func New(root string) (*Walker, error) {
	w := &Walker{Root: root}

	patterns, err := loadGitignore(root)
	if err != nil {
		return nil, fmt.Errorf("loading .gitignore: %w", err)
	}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			continue // a pattern glob can't express is simply not applied
		}
		w.ignoreGlobs = append(w.ignoreGlobs, g)
	}

	return w, nil
}

// loadGitignore reads and returns the non-comment, non-blank lines of
// <root>/.gitignore, translated into glob-compatible patterns. A missing
// file is not an error — it simply yields no patterns.
func loadGitignore(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var patterns []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		if !strings.Contains(line, "*") {
			line = "*" + line + "*"
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

func (w *Walker) isIgnored(relPath string) bool {
	for _, g := range w.ignoreGlobs {
		if g.Match(relPath) || g.Match(filepath.Base(relPath)) {
			return true
		}
	}
	return false
}

// Discover walks Root and returns every indexable file: code, plain text,
// and document formats under config.MaxFileSizeBytes, skipping
// config.AlwaysSkipDirs/Files, hidden entries, and .gitignore matches.
func (w *Walker) Discover() ([]File, error) {
	var files []File

	err := filepath.Walk(w.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walking %s: %v", codesight.ErrWalk, path, err)
		}
		if path == w.Root {
			return nil
		}

		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := info.Name()

		if info.IsDir() {
			if config.AlwaysSkipDirs[name] || strings.HasPrefix(name, ".") || w.isIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || config.AlwaysSkipFiles[name] {
			return nil
		}
		if !config.IsIndexableExt(strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		if w.isIgnored(rel) {
			return nil
		}
		if info.Size() > config.MaxFileSizeBytes {
			return nil
		}

		files = append(files, File{AbsPath: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
