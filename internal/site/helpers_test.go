package site

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const defaultLayout = `<html><head><title>{{ .title }} | {{ .site.name }}</title></head>` +
	`<body><nav>{{ range .nav }}<a href="{{ url $.site.base_url .path }}">{{ .title }}</a>{{ end }}</nav>` +
	`<main>{{ .content }}</main></body></html>`

func testConfig() config.Config {
	return config.New(map[string]map[string]string{
		"site":   {"name": "Test Site", "base_url": "http://example.com", "language": "en"},
		"author": {"name": "Jane"},
		"deploy": {"repository": "https://example.com/site.git", "branch": "gh-pages"},
	})
}

// newSite builds an in-memory site root. Keys of pages are relative to
// content/pages, keys of layouts to layouts.
func newSite(t *testing.T, pages, layouts map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	write := func(dir string, files map[string]string) {
		for name, body := range files {
			require.NoError(t, util.WriteFile(fsys, dir+"/"+name, []byte(body), 0o644))
		}
	}
	require.NoError(t, fsys.MkdirAll("_site-src/content/pages", 0o755))
	require.NoError(t, fsys.MkdirAll("_site-src/layouts", 0o755))
	write("_site-src/content/pages", pages)
	write("_site-src/layouts", layouts)
	return fsys
}

func readFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	b, err := util.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(b)
}

func exists(fsys billy.Filesystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// failingConverter rejects any body containing "BROKEN".
type failingConverter struct {
	next markdown.Converter
}

func (c failingConverter) ToHTML(body []byte, aliases map[string]string) ([]byte, error) {
	if strings.Contains(string(body), "BROKEN") {
		return nil, errors.New("unsupported construct")
	}
	return c.next.ToHTML(body, aliases)
}

// testRecorder counts recorder calls.
type testRecorder struct {
	mu       sync.Mutex
	stages   map[string]int
	results  map[metrics.ResultLabel]int
	outcomes []string
	written  int
	skipped  int
	builds   int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stages: map[string]int{}, results: map[metrics.ResultLabel]int{}}
}

func (r *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage]++
}

func (r *testRecorder) ObserveBuildDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds++
}

func (r *testRecorder) IncStageResult(_ string, res metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[res]++
}

func (r *testRecorder) IncBuildOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *testRecorder) AddPagesWritten(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written += n
}

func (r *testRecorder) IncPagesSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

var _ metrics.Recorder = (*testRecorder)(nil)
