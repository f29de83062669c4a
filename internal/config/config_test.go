package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

const sampleINI = `[site]
name        = "My Site"
baseline    = "Light and easy"
base_url    = "http://example.com"
[author]
name  = "Jane"
email = "jane@example.com"
[deploy]
repository = "https://example.com/site.git"
branch     = "gh-pages"
`

func writeSite(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, SourceDirName)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	return root
}

func TestLoadSite_INI(t *testing.T) {
	root := writeSite(t, sampleINI)

	cfg, err := LoadSite(root)
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Get(SectionSite, KeyName))
	require.Equal(t, "http://example.com", cfg.BaseURL())
	require.Equal(t, "Jane", cfg.Get(SectionAuthor, "name"))
	require.Equal(t, "gh-pages", cfg.Get(SectionDeploy, KeyBranch))
	require.Equal(t, []string{SectionAuthor, SectionDeploy, SectionSite}, cfg.Sections())
}

func TestLoadSite_DefaultsFillMissingKeys(t *testing.T) {
	root := writeSite(t, "[site]\nname = x\n")

	cfg, err := LoadSite(root)
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, cfg.BaseURL())
	require.Equal(t, DefaultLanguage, cfg.Language())
}

func TestLoadSite_Missing(t *testing.T) {
	_, err := LoadSite(t.TempDir())
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
	require.Contains(t, err.Error(), "cannot get config file")
}

func TestLoad_KeyOutsideSectionIsInvalid(t *testing.T) {
	root := writeSite(t, "name = x\n[site]\n")

	_, err := LoadSite(root)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestLoad_TOMLAndYAML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "site.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[site]\nname = \"T\"\nposts = 3\n"), 0o600))
	yamlPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("site:\n  name: Y\n  base_url: http://y.test\n"), 0o600))

	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	require.Equal(t, "T", cfg.Get(SectionSite, KeyName))
	require.Equal(t, "3", cfg.Get(SectionSite, "posts"))

	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "Y", cfg.Get(SectionSite, KeyName))
	require.Equal(t, "http://y.test", cfg.BaseURL())
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	root := writeSite(t, sampleINI)
	t.Setenv("SITEGEN_SITE_BASE_URL", "http://override.test")

	cfg, err := LoadSite(root)
	require.NoError(t, err)
	require.Equal(t, "http://override.test", cfg.BaseURL())
	require.Equal(t, "My Site", cfg.Get(SectionSite, KeyName))
}

func TestEnvOverrides(t *testing.T) {
	got := EnvOverrides([]string{
		"SITEGEN_SITE_BASE_URL=http://a",
		"SITEGEN_DEPLOY_BRANCH=main",
		"SITEGEN_BROKEN",
		"HOME=/root",
		"SITEGEN__X=y",
	})
	require.Equal(t, Overrides{
		"site":   {"base_url": "http://a"},
		"deploy": {"branch": "main"},
	}, got)
}

func TestEnvOverrides_SkipsReservedSettings(t *testing.T) {
	got := EnvOverrides([]string{
		EnvDeployToken + "=s3cret",
		EnvLogLevel + "=debug",
		"SITEGEN_DEPLOY_REPOSITORY=https://example.com/site.git",
	})
	require.Equal(t, Overrides{"deploy": {"repository": "https://example.com/site.git"}}, got)
}

func TestLoadSite_DeployTokenNeverReachesConfig(t *testing.T) {
	root := writeSite(t, sampleINI)
	t.Setenv(EnvDeployToken, "s3cret")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadSite(root)
	require.NoError(t, err)
	_, ok := cfg.Lookup(SectionDeploy, "token")
	require.False(t, ok)
	require.Equal(t, map[string]string{
		"repository": "https://example.com/site.git",
		"branch":     "gh-pages",
	}, cfg.Section(SectionDeploy))
	require.NotContains(t, cfg.Sections(), "log")
}

func TestWithOverrides_DeepMergeWithoutMutation(t *testing.T) {
	base := New(map[string]map[string]string{
		"site":   {"name": "A", "base_url": "http://a"},
		"author": {"name": "Jane"},
	})
	o := Overrides{"site": {"base_url": "http://localhost:8000"}, "extra": {"k": "v"}}

	merged, err := base.WithOverrides(o)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", merged.BaseURL())
	require.Equal(t, "A", merged.Get("site", "name"))
	require.Equal(t, "Jane", merged.Get("author", "name"))
	require.Equal(t, "v", merged.Get("extra", "k"))

	require.Equal(t, "http://a", base.BaseURL())
	require.Equal(t, Overrides{"site": {"base_url": "http://localhost:8000"}, "extra": {"k": "v"}}, o)

	// Mutating the merged result must not leak into the override input.
	sec := merged.Section("extra")
	sec["k"] = "changed"
	require.Equal(t, "v", merged.Get("extra", "k"))
	require.Equal(t, "v", o["extra"]["k"])
}

func TestWithOverrides_Empty(t *testing.T) {
	base := New(map[string]map[string]string{"site": {"name": "A"}})
	merged, err := base.WithOverrides(nil)
	require.NoError(t, err)
	require.Equal(t, base.Map(), merged.Map())
}

func TestOverridesSet_DoesNotMutateReceiver(t *testing.T) {
	o := Overrides{}
	o2 := o.Set("site", "base_url", "http://x")
	require.Empty(t, o)
	require.Equal(t, "http://x", o2["site"]["base_url"])
}

func TestSection_MissingReturnsEmptyMap(t *testing.T) {
	var cfg Config
	sec := cfg.Section("nope")
	require.NotNil(t, sec)
	require.Empty(t, sec)
	_, ok := cfg.Lookup("nope", "k")
	require.False(t, ok)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SITEGEN_TEST_DOTENV=hello\n"), 0o600))
	t.Setenv("SITEGEN_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SITEGEN_TEST_DOTENV"))

	loaded, err := LoadDotEnv(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, ".env")}, loaded)
	require.Equal(t, "hello", os.Getenv("SITEGEN_TEST_DOTENV"))
}
