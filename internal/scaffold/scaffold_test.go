package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

func TestInit_Messages(t *testing.T) {
	fsys := memfs.New()
	msgs, err := Init(fsys, KindDefault, false)
	require.NoError(t, err)
	require.Equal(t, []string{
		"_site-src directory created",
		"Config file created",
		"Layouts directory created",
		"Default layout file created",
		"Assets directory created",
		"Assets files not needed",
		"Content directory created",
		"Default content file created",
	}, msgs)

	for _, dir := range []string{
		"_site-src/assets/css", "_site-src/assets/img", "_site-src/assets/js",
		"_site-src/content/pages", "_site-src/content/posts",
	} {
		fi, err := fsys.Stat(dir)
		require.NoError(t, err, dir)
		require.True(t, fi.IsDir(), dir)
	}

	raw, err := util.ReadFile(fsys, "_site-src/content/pages/index.md")
	require.NoError(t, err)
	fm, body, err := frontmatter.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "Home", fm.Title)
	require.Equal(t, "default", fm.Layout)
	require.Equal(t, "nav", fm.Menu)
	require.Contains(t, string(body), "Welcome!")
}

func TestInit_RefusesExistingUnlessForced(t *testing.T) {
	fsys := memfs.New()
	_, err := Init(fsys, KindDefault, false)
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(fsys, "_site-src/content/pages/extra.md", []byte("x"), 0o644))

	_, err = Init(fsys, KindDefault, false)
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	_, err = Init(fsys, KindBootstrap, true)
	require.NoError(t, err)
	_, err = fsys.Stat("_site-src/content/pages/extra.md")
	require.Error(t, err)
}

func TestInit_UnknownKind(t *testing.T) {
	_, err := Init(memfs.New(), Kind("fancy"), false)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestInit_ScaffoldGenerates(t *testing.T) {
	for _, kind := range []Kind{KindDefault, KindBootstrap} {
		t.Run(string(kind), func(t *testing.T) {
			root := t.TempDir()
			fsys := osfs.New(root)
			_, err := Init(fsys, kind, false)
			require.NoError(t, err)

			cfg, err := config.LoadSite(root)
			require.NoError(t, err)
			res, err := site.NewGenerator(cfg, fsys).Generate(context.Background())
			require.NoError(t, err)
			require.Contains(t, res.Messages, "Write index.html")

			out, err := os.ReadFile(filepath.Join(root, "index.html"))
			require.NoError(t, err)
			require.Contains(t, string(out), "<h1 id=\"welcome\">Welcome!</h1>")
			require.Contains(t, string(out), `href="http://localhost:8000">Home</a>`)
		})
	}
}
