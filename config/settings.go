package config

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/go-viper/mapstructure/v2"
)

// Log level names accepted by LOG_LEVEL.
const (
	LogLevelCritical = "critical"
	LogLevelError    = "error"
	LogLevelWarning  = "warning"
	LogLevelInfo     = "info"
	LogLevelDebug    = "debug"
)

// Settings is the typed projection of the snapshot that the server wiring
// consumes. It is derived once after load; the tree stays the source of
// truth for dynamic lookups.
type Settings struct {
	Env            string `mapstructure:"env"`
	Debug          bool   `mapstructure:"debug"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	LogLevel       string `mapstructure:"log_level"`
	Hotreload      bool   `mapstructure:"hotreload"`
	AllowUnderline bool   `mapstructure:"allow_underline"`
	ForceSSL       bool   `mapstructure:"force_ssl"`

	AllowedHosts []string `mapstructure:"allowed_hosts"`

	CORSAllowOrigins     []string `mapstructure:"cors_allow_origins"`
	CORSAllowMethods     []string `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders     []string `mapstructure:"cors_allow_headers"`
	CORSAllowCredentials bool     `mapstructure:"cors_allow_credentials"`
	CORSAllowOriginRegex string   `mapstructure:"cors_allow_origin_regex"`
	CORSExposeHeaders    []string `mapstructure:"cors_expose_headers"`
	CORSMaxAge           int      `mapstructure:"cors_max_age"`
}

// Settings decodes the environment-resolved snapshot into its typed form and
// validates it. Weak typing lets JSON numbers land in integer fields.
func (c *Config) Settings() (*Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(c.effective()); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

// effective flattens the snapshot: all root keys with the active environment
// override block applied on top.
func (c *Config) effective() map[string]any {
	out := make(map[string]any, c.root.Len())
	for _, key := range c.root.Keys() {
		out[key], _ = c.root.Get(key)
	}
	if env := c.Env(); env != "" {
		if v, ok := c.root.Get(env); ok {
			if block, ok := v.(*Node); ok {
				for _, key := range block.Keys() {
					out[key], _ = block.Get(key)
				}
			}
		}
	}
	return out
}

func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Env, validation.Required),
		validation.Field(&s.Host, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.LogLevel,
			validation.Required,
			validation.In(LogLevelCritical, LogLevelError, LogLevelWarning, LogLevelInfo, LogLevelDebug),
		),
		validation.Field(&s.CORSMaxAge, validation.Min(0)),
		validation.Field(&s.CORSAllowOriginRegex, validation.By(validateRegexp)),
	)
}

func validateRegexp(value interface{}) error {
	pattern, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return validation.NewError("validation_invalid_regexp", "must be a valid regular expression")
	}
	return nil
}
