package config

import (
	"fmt"

	"dario.cat/mergo"
)

// Overrides is a partial configuration merged over a loaded Config, e.g.
// {"site": {"base_url": "http://localhost:8000"}} for preview builds.
type Overrides map[string]map[string]string

// WithOverrides returns a new Config where every key present in o replaces
// the loaded value. Keys o does not mention are kept and neither c nor o is
// modified.
func (c Config) WithOverrides(o Overrides) (Config, error) {
	if len(o) == 0 {
		return c, nil
	}
	dst := cloneSections(c.sections)
	src := cloneSections(o)
	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merge config overrides: %w", err)
	}
	return Config{sections: dst}, nil
}

// Set returns a copy of o with section/key set to value.
func (o Overrides) Set(section, key, value string) Overrides {
	out := Overrides(cloneSections(o))
	if out[section] == nil {
		out[section] = map[string]string{}
	}
	out[section][key] = value
	return out
}
