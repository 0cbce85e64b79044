package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// candidates are the recognized configuration filenames in priority order.
// config.json is the legacy name and kept for compatibility.
var candidates = [...]string{"config.json", "index.json", "index.yaml", "index.yml"}

// Candidates returns the recognized configuration filenames.
func Candidates() []string {
	return append([]string(nil), candidates[:]...)
}

// Loader locates and decodes the single configuration file of a directory.
type Loader struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// NewLoader builds a Loader over fs. New uses the OS filesystem; tests may
// pass an in-memory one.
func NewLoader(fs afero.Fs, dir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{fs: fs, dir: dir, log: log}
}

// Discover returns the candidate present in the directory, or "" when none
// exists. Every candidate is checked: finding a second one is a hard error
// naming both files.
func (l *Loader) Discover() (string, error) {
	var found string
	for _, name := range candidates {
		ok, err := afero.Exists(l.fs, filepath.Join(l.dir, name))
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", name, err)
		}
		if !ok {
			continue
		}
		if found != "" {
			return "", &ConflictError{First: found, Second: name}
		}
		found = name
	}

	if found == "config.json" {
		l.log.Warn("config.json is deprecated, rename it to index.json or index.yaml")
	}

	return found, nil
}

// Load decodes the discovered file into a mapping. A missing file is not an
// error: the mapping is nil and the name empty, and defaults stand alone.
func (l *Loader) Load() (map[string]any, string, error) {
	name, err := l.Discover()
	if err != nil || name == "" {
		return nil, "", err
	}

	raw, err := afero.ReadFile(l.fs, filepath.Join(l.dir, name))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}

	var data any
	switch {
	case strings.HasSuffix(name, ".json"):
		err = json.Unmarshal(raw, &data)
	default:
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", name, err)
	}

	root, ok := asMapping(data)
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", name, ErrNotMapping)
	}

	l.log.Info("loaded configuration file", slog.String("file", name))

	return root, name, nil
}
