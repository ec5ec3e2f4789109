package configutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the path of the local override file for `name`,
// ex. `config/odoo-partners.json5` -> `config/odoo-partners.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

func readFile(path string) (map[string]any, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// ReadOrDefault reads a json5 configuration file over `def`, `name` should come
// with a file extension. this function will merge the following files, where
// higher number is more prioritized.
// 0. def
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// keys absent from both files keep their default, keys that are present win
// even when they hold a zero value. a missing file is skipped.
func ReadOrDefault[T any](name string, def T) (T, error) {
	merged := map[string]any{}
	for _, path := range []string{name, LocalPath(name)} {
		values, err := readFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return def, err
		}
		// map entries are overridden even when the new value is zero
		err = mergo.Merge(&merged, values, mergo.WithOverride)
		if err != nil {
			return def, fmt.Errorf("merge %s: %w", path, err)
		}
		if path != name {
			slog.Info("merging config with local overrides", "local", path)
		}
	}

	out := def
	if len(merged) == 0 {
		return out, nil
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return def, err
	}
	err = json5.Unmarshal(encoded, &out)
	if err != nil {
		return def, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}
