// Package content finds page sources below `_site-src/content/pages`.
package content

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Unit is one discovered content file.
type Unit struct {
	SourcePath string // Path within the filesystem the unit was discovered on
	SitePath   string // Slash separated directory relative to the content root, "" for the root
	Name       string // Base filename including extension
	Raw        []byte // File content (loaded on demand)
}

// BaseName is the filename without its extension.
func (u Unit) BaseName() string {
	return strings.TrimSuffix(u.Name, filepath.Ext(u.Name))
}

// RelPath is SitePath/Name, or Name at the root.
func (u Unit) RelPath() string {
	if u.SitePath == "" {
		return u.Name
	}
	return u.SitePath + "/" + u.Name
}

var errStopWalk = errors.New("stop walk")

// Discover yields every Markdown file below root, depth first, parents
// before children, entries in lexical order. Each call walks afresh.
//
// A traversal failure is yielded once as the error value and ends the
// sequence.
func Discover(fsys billy.Filesystem, root string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		err := util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if strings.HasPrefix(info.Name(), ".") || !IsMarkdownFile(info.Name()) {
				return nil
			}

			rel, err := filepath.Rel(root, filepath.Dir(path))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidRelativePath, err)
			}
			sitePath := filepath.ToSlash(rel)
			if sitePath == "." {
				sitePath = ""
			}

			unit := Unit{SourcePath: path, SitePath: sitePath, Name: info.Name()}
			slog.Debug("Discovered content file", logfields.Path(unit.RelPath()), logfields.SitePath(sitePath))
			if !yield(unit, nil) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(Unit{}, fmt.Errorf("%w: %s: %w", ErrContentDirWalkFailed, root, err))
		}
	}
}

// Load reads the unit's content from fsys.
func (u *Unit) Load(fsys billy.Filesystem) error {
	if u.Raw != nil {
		return nil // Already loaded
	}

	f, err := fsys.Open(u.SourcePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, u.SourcePath, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, u.SourcePath, err)
	}
	u.Raw = raw
	return nil
}

// IsMarkdownFile checks the extension case-insensitively.
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}
