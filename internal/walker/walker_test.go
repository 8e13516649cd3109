package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkSkipsIgnoredAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "def f(): pass\n")
	writeFile(t, filepath.Join(root, "vendor", "b.py"), "def g(): pass\n")
	writeFile(t, filepath.Join(root, ".gitignore"), "vendor/\n")
	writeFile(t, filepath.Join(root, ".hidden.py"), "def h(): pass\n")

	files, err := Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Equal(t, []string{"a.py"}, paths)
}

func TestWalkDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "m.go"), "package m\n")

	files, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.py", files[0].RelPath)
	assert.Equal(t, "m.go", files[1].RelPath)
	assert.Equal(t, "z.py", files[2].RelPath)
}

func TestWalkSkipsBinaryAndUnknownExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), "not a language")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.py"), []byte("x\x00y"), 0o644))
	writeFile(t, filepath.Join(root, "ok.py"), "x = 1\n")

	files, err := Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Equal(t, []string{"ok.py"}, paths)
}

func TestWalkNestedGitignoreScoped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "keep.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "sub", "skip.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "skip.py\n")

	files, err := Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Equal(t, []string{"sub/keep.py"}, paths)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLanguageTagMapping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(root, "b.tsx"), "const x = 1;\n")

	files, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "rust", files[0].LanguageTag)
	assert.Equal(t, "typescript", files[1].LanguageTag)
}
