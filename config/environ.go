package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/subosito/gotenv"
)

// Environment variables recognized by the overlay.
const (
	EnvDebug = "INDEX_DEBUG"
	EnvName  = "INDEX_ENV"
)

// dotenv reads the optional .env file of the directory. Its entries apply
// only when the process environment leaves the variable unset. A malformed
// .env is reported and skipped, never fatal.
func dotenv(fs afero.Fs, dir string, log *slog.Logger) gotenv.Env {
	f, err := fs.Open(filepath.Join(dir, ".env"))
	if err != nil {
		return nil
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		log.Warn("ignoring malformed .env file", slog.Any("err", err))
		return nil
	}
	return env
}

// overlay collects the environment-variable overrides. The result is merged
// last during construction and therefore wins over defaults and file values.
// A debug variable that is present with a non-affirmative value, even the
// empty string, still contributes debug=false.
func overlay(fallback gotenv.Env) map[string]any {
	result := make(map[string]any)

	if v, ok := lookup(EnvDebug, fallback); ok {
		result["debug"] = strings.EqualFold(v, "on") || strings.EqualFold(v, "true")
	}

	if v, ok := lookup(EnvName, fallback); ok && v != "" {
		result["env"] = v
	}

	return result
}

// lookup consults the process environment first. The fallback applies only
// when the variable is entirely unset there; a set-but-empty variable counts
// as present.
func lookup(key string, fallback gotenv.Env) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := fallback[key]
	return v, ok
}
