package site

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func TestWriter_WritePage(t *testing.T) {
	fsys := memfs.New()
	w := NewWriter(fsys)

	replaced, err := w.WritePage(&Page{Path: "a/b", OutputName: "c.html"}, "one")
	require.NoError(t, err)
	require.False(t, replaced)

	replaced, err = w.WritePage(&Page{Path: "a/b", OutputName: "c.html"}, "two")
	require.NoError(t, err)
	require.True(t, replaced)
	require.Equal(t, "two", readFile(t, fsys, "a/b/c.html"))

	_, err = w.WritePage(&Page{OutputName: "index.html"}, "root")
	require.NoError(t, err)
	require.Equal(t, "root", readFile(t, fsys, "index.html"))
}

func TestWriter_CopyAssetsMissingSource(t *testing.T) {
	copied, err := NewWriter(memfs.New()).CopyAssets("_site-src/assets")
	require.NoError(t, err)
	require.False(t, copied)
}

func TestWriter_CopyAssetsSourceIsFile(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "_site-src/assets", []byte("x"), 0o644))
	_, err := NewWriter(fsys).CopyAssets("_site-src/assets")
	require.Error(t, err)
}

func TestWriter_RemoveLayoutsAbsent(t *testing.T) {
	removed, err := NewWriter(memfs.New()).RemoveLayouts()
	require.NoError(t, err)
	require.False(t, removed)
}

func TestWriter_WriteMarkerReplaces(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "README.md", []byte("user notes"), 0o644))
	require.NoError(t, NewWriter(fsys).WriteMarker())
	require.Equal(t, markerContent, readFile(t, fsys, "README.md"))
}
