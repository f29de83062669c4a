package workspace

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// GitDirName is preserved when the mirror is cleared.
const GitDirName = ".git"

// MirrorPath returns `<parent>/.<basename>` for siteRoot.
func MirrorPath(siteRoot string) string {
	clean := filepath.Clean(siteRoot)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean))
}

// Manager handles the mirror directory of one site.
type Manager struct {
	siteRoot string
	dir      string
}

// NewManager returns a manager for the mirror of siteRoot.
func NewManager(siteRoot string) *Manager {
	return &Manager{siteRoot: siteRoot, dir: MirrorPath(siteRoot)}
}

// GetPath returns the mirror directory.
func (m *Manager) GetPath() string { return m.dir }

// Create ensures the mirror directory exists. created reports whether it was
// missing.
func (m *Manager) Create() (created bool, err error) {
	if fi, err := os.Stat(m.dir); err == nil {
		if !fi.IsDir() {
			return false, fmt.Errorf("mirror path %s is not a directory", m.dir)
		}
		return false, nil
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return false, fmt.Errorf("failed to create mirror directory: %w", err)
	}
	slog.Info("Created deploy mirror", logfields.Path(m.dir))
	return true, nil
}

// Clear removes every top-level entry of the mirror except `.git`.
func (m *Manager) Clear() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("failed to read mirror directory: %w", err)
	}
	for _, e := range entries {
		if e.Name() == GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to clear mirror: %w", err)
		}
	}
	return nil
}

// Sync copies the site root into the mirror, skipping top-level entries named
// in exclude and any `.git`. It returns the number of files copied.
func (m *Manager) Sync(exclude ...string) (int, error) {
	src := osfs.New(m.siteRoot)
	dst := osfs.New(m.dir)
	skip := append([]string{GitDirName}, exclude...)

	copied := 0
	err := util.Walk(src, ".", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		top, _, _ := strings.Cut(filepath.ToSlash(path), "/")
		if slices.Contains(skip, top) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return dst.MkdirAll(path, 0o755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if err := copyFile(src, dst, path); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to sync site into mirror: %w", err)
	}
	slog.Debug("Synced site into mirror", logfields.Path(m.dir), logfields.Count(copied))
	return copied, nil
}

func copyFile(src, dst billy.Filesystem, name string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := dst.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
