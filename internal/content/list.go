package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// List returns every regular file below root as `<sub path>/<file>`,
// children before their parent directory's own files.
func List(fsys billy.Filesystem, root string) ([]string, error) {
	var out []string
	if err := listDir(fsys, root, "", &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrContentDirWalkFailed, root, err)
	}
	return out, nil
}

func listDir(fsys billy.Filesystem, dir, sub string, out *[]string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []os.FileInfo
	for _, e := range entries {
		if e.IsDir() {
			if err := listDir(fsys, filepath.Join(dir, e.Name()), joinSub(sub, e.Name()), out); err != nil {
				return err
			}
			continue
		}
		files = append(files, e)
	}
	for _, f := range files {
		*out = append(*out, joinSub(sub, f.Name()))
	}
	return nil
}

func joinSub(sub, name string) string {
	if sub == "" {
		return name
	}
	return sub + "/" + name
}
