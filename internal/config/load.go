package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Path returns the location of the site config under root.
func Path(root string) string {
	return filepath.Join(root, SourceDirName, ConfigFileName)
}

// LoadSite loads `<root>/_site-src/config.ini`.
func LoadSite(root string) (Config, error) {
	return Load(Path(root))
}

// Load reads a config file, applies SITEGEN_* environment overrides and
// fills defaults. The format follows the extension: .toml and .yaml/.yml
// are decoded as such, anything else as INI.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, derrors.ConfigMissing(path)
		}
		return Config{}, derrors.ConfigInvalid(path, err)
	}

	sections, err := decode(path, data)
	if err != nil {
		return Config{}, derrors.ConfigInvalid(path, err)
	}

	cfg, err := New(sections).WithOverrides(EnvOverrides(os.Environ()))
	if err != nil {
		return Config{}, derrors.ConfigInvalid(path, err)
	}
	cfg, err = cfg.withDefaults()
	if err != nil {
		return Config{}, derrors.ConfigInvalid(path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte) (map[string]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		return flatten(raw)
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		return flatten(raw)
	default:
		return decodeINI(data)
	}
}

func decodeINI(data []byte) (map[string]map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{KeyValueDelimiters: "="}, data)
	if err != nil {
		return nil, fmt.Errorf("ini: %w", err)
	}

	out := map[string]map[string]string{}
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				return nil, fmt.Errorf("ini: key %q outside of a section", sec.Keys()[0].Name())
			}
			continue
		}
		out[sec.Name()] = sec.KeysHash()
	}
	return out, nil
}

// flatten turns a decoded document into sections. Top-level keys must be
// tables; nested values are rendered with fmt.
func flatten(raw map[string]any) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(raw))
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table, ok := raw[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("top-level key %q is not a section", name)
		}
		sec := make(map[string]string, len(table))
		for k, v := range table {
			sec[k] = fmt.Sprint(v)
		}
		out[name] = sec
	}
	return out, nil
}
