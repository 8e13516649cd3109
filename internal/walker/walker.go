// Package walker enumerates candidate source files under a workspace root,
// honoring a gitignore-style ignore cascade, hidden-file rules, and a
// binary-file filter.
package walker

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	seekrerrors "github.com/seekr/seekr/internal/errors"
)

// languageByExt is the extension allowlist from the component design.
// Extensions not present here are skipped entirely.
var languageByExt = map[string]string{
	".rs":   "rust",
	".py":   "python",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".go":   "go",
	".java": "java",
	".c":    "c_family",
	".h":    "c_family",
	".cpp":  "c_family",
	".hpp":  "c_family",
	".cc":   "c_family",
	".rb":   "ruby",
	".md":   "markdown",
	".toml": "config",
	".yaml": "config",
	".yml":  "config",
	".json": "config",
}

// defaultIgnores are always skipped, independent of any .gitignore.
var defaultIgnores = []string{
	".git",
}

// binarySniffBytes is how much of a file's head is checked for a NUL byte.
const binarySniffBytes = 8 * 1024

// File is a single walk result: a candidate source file with its detected
// language tag.
type File struct {
	AbsPath      string
	RelPath      string // workspace-relative, forward-slash separated
	LanguageTag  string
}

// Walk enumerates files under root in deterministic lexicographic order,
// applying the ignore cascade (root .gitignore plus any nested ones),
// hidden-file rules, and the binary/extension filter.
func Walk(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, seekrerrors.WorkspaceMissing(root, err)
	}

	cascade, err := buildIgnoreCascade(root)
	if err != nil {
		return nil, seekrerrors.IoFailed(root, err)
	}

	var out []File
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries, don't abort the walk
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if isHidden(d.Name()) && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if cascade.matches(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		lang, ok := languageByExt[ext]
		if !ok {
			return nil
		}

		if looksBinary(path) {
			return nil
		}

		out = append(out, File{AbsPath: path, RelPath: rel, LanguageTag: lang})
		return nil
	})
	if walkErr != nil {
		return nil, seekrerrors.IoFailed(root, walkErr)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}

// isHidden reports whether a base name is a dotfile other than "." or "..".
func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// looksBinary sniffs the first 8KiB of a file for a NUL byte.
func looksBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true // unreadable files are treated as non-indexable
	}
	defer f.Close()

	buf := make([]byte, binarySniffBytes)
	n, _ := f.Read(buf)
	return bytes.IndexByte(buf[:n], 0) != -1
}

// ignoreCascade combines the repository-root ignore file with any nested
// .gitignore files discovered during the walk, matching each pattern set
// against paths rooted at its own directory.
type ignoreCascade struct {
	root     gitignore.IgnoreParser
	byDir    map[string]gitignore.IgnoreParser
	relByDir map[string]string // directory rel path -> nested matcher key
}

func buildIgnoreCascade(root string) (*ignoreCascade, error) {
	c := &ignoreCascade{byDir: make(map[string]gitignore.IgnoreParser)}

	lines, err := readIgnoreLines(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil, err
	}
	allLines := append(append([]string{}, defaultIgnores...), lines...)
	c.root = gitignore.CompileIgnoreLines(allLines...)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		gi := filepath.Join(path, ".gitignore")
		if _, statErr := os.Stat(gi); statErr != nil {
			return nil
		}
		nested, err := readIgnoreLines(gi)
		if err != nil || len(nested) == 0 {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		c.byDir[filepath.ToSlash(rel)] = gitignore.CompileIgnoreLines(nested...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// matches reports whether relpath should be ignored, consulting the root
// cascade and any nested .gitignore whose directory is an ancestor.
func (c *ignoreCascade) matches(relpath string, isDir bool) bool {
	if c.root.MatchesPath(relpath) {
		return true
	}
	for dir, matcher := range c.byDir {
		if !strings.HasPrefix(relpath, dir+"/") {
			continue
		}
		sub := strings.TrimPrefix(relpath, dir+"/")
		if matcher.MatchesPath(sub) {
			return true
		}
	}
	return false
}

func readIgnoreLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
