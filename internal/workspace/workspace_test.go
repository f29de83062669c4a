package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestMirrorPath(t *testing.T) {
	require.Equal(t, filepath.Join("/srv", ".site"), MirrorPath("/srv/site"))
	require.Equal(t, filepath.Join("/srv", ".site"), MirrorPath("/srv/site/"))
}

func TestManager_CreateIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	m := NewManager(root)

	created, err := m.Create()
	require.NoError(t, err)
	require.True(t, created)
	require.DirExists(t, m.GetPath())

	created, err = m.Create()
	require.NoError(t, err)
	require.False(t, created)
}

func TestManager_ClearKeepsGit(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	m := NewManager(root)
	_, err := m.Create()
	require.NoError(t, err)

	writeFile(t, filepath.Join(m.GetPath(), ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(m.GetPath(), "old.html"), "old")
	writeFile(t, filepath.Join(m.GetPath(), "blog", "post.html"), "old")

	require.NoError(t, m.Clear())
	entries, err := os.ReadDir(m.GetPath())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ".git", entries[0].Name())
}

func TestManager_SyncExcludesSources(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	writeFile(t, filepath.Join(root, "index.html"), "home")
	writeFile(t, filepath.Join(root, "blog", "post.html"), "post")
	writeFile(t, filepath.Join(root, "_site-src", "config.ini"), "[site]")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")

	m := NewManager(root)
	_, err := m.Create()
	require.NoError(t, err)

	n, err := m.Sync("_site-src")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.FileExists(t, filepath.Join(m.GetPath(), "index.html"))
	require.FileExists(t, filepath.Join(m.GetPath(), "blog", "post.html"))
	require.NoDirExists(t, filepath.Join(m.GetPath(), "_site-src"))
	require.NoDirExists(t, filepath.Join(m.GetPath(), ".git"))
}
