package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wirebind/wirebind/internal/inspect"
)

// configName is looked up in the scan directory when --config is not given.
const configName = ".wirebind.toml"

// fileConfig is the .wirebind.toml key mapping for lint options.
type fileConfig struct {
	RequireDescription bool `toml:"require_description"`
}

// loadOptions merges flags over the config file. Flags win.
func loadOptions(c *LintCmd) (inspect.Options, error) {
	opts := inspect.Options{
		RequireDescription: c.RequireDescription,
	}

	path := c.Config
	if path == "" {
		path = filepath.Join(c.Dir, configName)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		// A missing default config is fine; an explicit one must exist.
		if c.Config == "" && errors.Is(err, fs.ErrNotExist) {
			return opts, nil
		}
		return inspect.Options{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("require_description") && !c.RequireDescription {
		opts.RequireDescription = raw.RequireDescription
	}
	return opts, nil
}
