package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestIndexCmdIndexesWorkspace(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("def authenticate(user): return True\n"), 0o644))
	chdir(t, root)

	buf := &bytes.Buffer{}
	c := newIndexCmd()
	c.SetOut(buf)
	c.SetErr(buf)
	require.NoError(t, c.Execute())
	assert.Contains(t, buf.String(), "added 1")
}

func TestStatusCmdReportsAfterIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("def authenticate(user): return True\n"), 0o644))
	chdir(t, root)

	indexBuf := &bytes.Buffer{}
	ic := newIndexCmd()
	ic.SetOut(indexBuf)
	require.NoError(t, ic.Execute())

	statusBuf := &bytes.Buffer{}
	sc := newStatusCmd()
	sc.SetOut(statusBuf)
	require.NoError(t, sc.Execute())
	assert.Contains(t, statusBuf.String(), "files: 1")
}

func TestSearchCmdFindsHybridHit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("def authenticate(user): return True\n"), 0o644))
	chdir(t, root)

	ic := newIndexCmd()
	ic.SetOut(&bytes.Buffer{})
	require.NoError(t, ic.Execute())

	buf := &bytes.Buffer{}
	sc := newSearchCmd()
	sc.SetOut(buf)
	sc.SetArgs([]string{"authenticate", "--json"})
	require.NoError(t, sc.Execute())
	assert.Contains(t, buf.String(), "a.py")
}

func TestSearchCmdRejectsMutuallyExclusiveFlags(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	sc := newSearchCmd()
	sc.SetOut(&bytes.Buffer{})
	sc.SetErr(&bytes.Buffer{})
	sc.SetArgs([]string{"query", "--semantic", "--hybrid"})
	err := sc.Execute()
	assert.Error(t, err)
}
