package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// run parses args against a fresh CLI and executes the selected command,
// returning everything printed to the console.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sitegen"),
		kong.Vars{"version": "test"},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	g := &Global{Ctx: context.Background(), Logger: slog.Default(), Console: NewConsole(&buf)}
	err = kctx.Run(g, &cli)
	return buf.String(), err
}

func TestConsole_Lines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Info("Generate website")
	c.DoneAll([]string{"Write index.html", "README file created"})
	c.Error("boom")
	c.Plain("- index.md")

	require.Equal(t,
		"[INFO]\tGenerate website\n"+
			"[DONE]\tWrite index.html\n"+
			"[DONE]\tREADME file created\n"+
			"[ERROR]\tboom\n"+
			"- index.md\n",
		buf.String())
}

func TestLogLevel(t *testing.T) {
	cases := []struct {
		verbose bool
		env     string
		want    slog.Level
	}{
		{false, "", slog.LevelWarn},
		{true, "", slog.LevelDebug},
		{true, "error", slog.LevelDebug},
		{false, "info", slog.LevelInfo},
		{false, " ERROR ", slog.LevelError},
		{false, "nonsense", slog.LevelWarn},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, logLevel(tc.verbose, tc.env), "verbose=%v env=%q", tc.verbose, tc.env)
	}
}

func TestInitGenerateList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--path", dir, "init")
	require.NoError(t, err)
	require.Contains(t, out, "[INFO]\tInitializing new website\n")
	require.Contains(t, out, "[DONE]\t_site-src directory created\n")
	require.Contains(t, out, "[DONE]\tDefault content file created\n")

	out, err = run(t, "--path", dir, "generate")
	require.NoError(t, err)
	require.Contains(t, out, "[INFO]\tGenerate website\n")
	require.Contains(t, out, "[DONE]\tWrite index.html\n")
	require.Contains(t, out, "[DONE]\tREADME file created\n")
	require.FileExists(t, filepath.Join(dir, "index.html"))
	require.FileExists(t, filepath.Join(dir, config.MarkerFileName))

	out, err = run(t, "--path", dir, "list", "pages")
	require.NoError(t, err)
	require.Equal(t, "[INFO]\tList pages\n- index.md\n", out)
}

func TestInit_RefusesExistingSiteUnlessForced(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "init")
	require.NoError(t, err)

	_, err = run(t, "--path", dir, "init")
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryValidation))

	out, err := run(t, "--path", dir, "init", "--force", "--layout", "bootstrap")
	require.NoError(t, err)
	require.Contains(t, out, "Assets files not needed")
}

func TestInit_RejectsUnknownLayout(t *testing.T) {
	_, err := run(t, "--path", t.TempDir(), "init", "--layout", "fancy")
	require.Error(t, err)
}

func TestGenerate_ServeOverridesBaseURL(t *testing.T) {
	cmd := GenerateCmd{}
	require.Nil(t, cmd.overrides())

	cmd.Serve = true
	require.Equal(t, "http://localhost:8000", cmd.overrides()[config.SectionSite][config.KeyBaseURL])

	dir := t.TempDir()
	_, err := run(t, "--path", dir, "init")
	require.NoError(t, err)
	out, err := run(t, "--path", dir, "generate", "--serve")
	require.NoError(t, err)
	require.Contains(t, out, "[INFO]\tYou should re-generate before deploy\n")
}

func TestGenerate_WritesReport(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "init")
	require.NoError(t, err)

	reportPath := filepath.Join(t.TempDir(), "report.json")
	_, err = run(t, "--path", dir, "generate", "--workers", "2", "--report", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	require.Equal(t, "success", report["outcome"])
}

func TestGenerate_AlternativeConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "init")
	require.NoError(t, err)

	alt := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(alt, []byte("site:\n  name: From YAML\n  base_url: http://yaml.test\n"), 0o600))

	_, err = run(t, "--path", dir, "--config", alt, "generate")
	require.NoError(t, err)
	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "From YAML")
}

func TestGenerate_MissingConfig(t *testing.T) {
	_, err := run(t, "--path", t.TempDir(), "generate")
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
	require.Equal(t, 7, derrors.NewCLIErrorAdapter(false, slog.Default()).ExitCodeFor(err))
}

func TestListPages_InvalidDirectory(t *testing.T) {
	out, err := run(t, "--path", t.TempDir(), "list", "pages")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid content/pages directory")
	require.Equal(t, "[INFO]\tList pages\n", out)
}

func TestDeploy_RequiresRepository(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, config.SourceDirName)
	require.NoError(t, os.MkdirAll(src, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, config.ConfigFileName), []byte("[site]\nname = x\n"), 0o600))

	out, err := run(t, "--path", dir, "deploy")
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryDeploy))
	require.Equal(t, "[INFO]\tDeploy website\n", out)
}

func TestPathMustExist(t *testing.T) {
	_, err := run(t, "--path", filepath.Join(t.TempDir(), "missing"), "list", "pages")
	require.Error(t, err)
}
