package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/sitegen/internal/config"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Filesystem operations named in FilesystemError.
const (
	opCreate = "create"
	opDelete = "delete"
	opWrite  = "write"
	opRemove = "remove"
	opCopy   = "copy"
)

// markerContent is written to the site root after every generation.
const markerContent = "Powered by [sitegen](https://git.home.luguber.info/inful/sitegen).\n"

// Writer reconciles generated output with the site root.
type Writer struct {
	fsys billy.Filesystem
}

// NewWriter returns a writer rooted at fsys.
func NewWriter(fsys billy.Filesystem) *Writer { return &Writer{fsys: fsys} }

// WritePage writes html to p.OutputPath(). replaced reports whether an
// earlier output was deleted first.
func (w *Writer) WritePage(p *Page, html string) (replaced bool, err error) {
	if p.Path != "" {
		if err := w.fsys.MkdirAll(p.Path, 0o755); err != nil {
			return false, derrors.FilesystemError(opCreate, p.Path, err)
		}
	}
	out := p.OutputPath()
	if _, err := w.fsys.Stat(out); err == nil {
		if err := w.fsys.Remove(out); err != nil {
			return false, derrors.FilesystemError(opDelete, out, err)
		}
		replaced = true
	}
	if err := util.WriteFile(w.fsys, out, []byte(html), 0o644); err != nil {
		return replaced, derrors.FilesystemError(opWrite, out, err)
	}
	return replaced, nil
}

// RemoveLayouts deletes a `layouts` directory left in the site root.
func (w *Writer) RemoveLayouts() (removed bool, err error) {
	if _, err := w.fsys.Stat(config.LayoutsDirName); err != nil {
		return false, nil
	}
	if err := util.RemoveAll(w.fsys, config.LayoutsDirName); err != nil {
		return false, derrors.FilesystemError(opRemove, config.LayoutsDirName, err)
	}
	return true, nil
}

// CopyAssets mirrors src into `assets`, overwriting existing files.
// copied is false when src does not exist.
func (w *Writer) CopyAssets(src string) (copied bool, err error) {
	fi, err := w.fsys.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, derrors.FilesystemError(opCopy, src, err)
	}
	if !fi.IsDir() {
		return false, derrors.FilesystemError(opCopy, src, errors.New("not a directory"))
	}

	dst := config.AssetsDirName
	walkErr := util.Walk(w.fsys, src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return w.fsys.MkdirAll(target, 0o755)
		}
		return w.copyFile(path, target)
	})
	if walkErr != nil {
		return false, derrors.FilesystemError(opCopy, src, walkErr)
	}
	return true, nil
}

func (w *Writer) copyFile(src, dst string) error {
	in, err := w.fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := w.fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// WriteMarker replaces the README marker in the site root.
func (w *Writer) WriteMarker() error {
	name := config.MarkerFileName
	if _, err := w.fsys.Stat(name); err == nil {
		if err := w.fsys.Remove(name); err != nil {
			return derrors.FilesystemError(opDelete, name, err)
		}
	}
	if err := util.WriteFile(w.fsys, name, []byte(markerContent), 0o644); err != nil {
		return derrors.FilesystemError(opWrite, name, err)
	}
	return nil
}
