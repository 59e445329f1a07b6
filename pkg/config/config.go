// Package config builds the immutable shipway configuration.
//
// A Config is assembled exactly once per invocation by merging, in
// precedence order (later sources win):
//
//  1. built-in defaults (embedded TOML)
//  2. the user configuration file (TOML or YAML)
//  3. SHIPWAY_* environment variables
//  4. command-line overrides
//
// The resulting struct is passed explicitly to every component; there is
// no ambient or global configuration state.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/shipway/pkg/errors"
)

// EnvConfigFile overrides the user configuration file location
const EnvConfigFile = "SHIPWAY_CONFIG"

// envPrefix is the prefix for configuration environment variables
const envPrefix = "SHIPWAY_"

// RestartMethod selects how the running service is asked to pick up
// a freshly deployed release.
type RestartMethod string

const (
	// RestartSystemctl restarts the service through systemd
	RestartSystemctl RestartMethod = "systemctl"

	// RestartTouch drops a flag file that an external watcher reacts to
	RestartTouch RestartMethod = "touch"

	// RestartNone performs no restart handling
	RestartNone RestartMethod = "none"
)

// Config is the fully merged shipway configuration for one invocation.
// It is never mutated after Load returns.
type Config struct {
	AppName string `koanf:"app_name"`
	Version string `koanf:"version"`

	BasePath  string `koanf:"base_path"`
	BuildPath string `koanf:"build_path"`

	User  string `koanf:"user"`
	Group string `koanf:"group"`

	RestartMethod  RestartMethod `koanf:"restart_method"`
	SystemdVersion int           `koanf:"systemd_version"`
	SudoEnabled    bool          `koanf:"sudo_enabled"`

	CreateConfDir    bool `koanf:"create_conf_dir"`
	CreateLogsDir    bool `koanf:"create_logs_dir"`
	CreateRuntimeDir bool `koanf:"create_runtime_dir"`
	CreateTmpDir     bool `koanf:"create_tmp_dir"`
	CreateStateDir   bool `koanf:"create_state_dir"`
	CreateCacheDir   bool `koanf:"create_cache_dir"`

	ConfBase    string `koanf:"conf_base"`
	LogsBase    string `koanf:"logs_base"`
	RuntimeBase string `koanf:"runtime_base"`
	TmpBase     string `koanf:"tmp_base"`
	StateBase   string `koanf:"state_base"`
	CacheBase   string `koanf:"cache_base"`

	ConfPath    string `koanf:"conf_path"`
	LogsPath    string `koanf:"logs_path"`
	RuntimePath string `koanf:"runtime_path"`
	TmpPath     string `koanf:"tmp_path"`
	StatePath   string `koanf:"state_path"`
	CachePath   string `koanf:"cache_path"`

	TemplatesPath string `koanf:"templates_path"`
}

// Load builds the merged configuration. configFile may be empty, in which
// case the SHIPWAY_CONFIG environment variable and then the XDG config
// directory are consulted. overrides holds command-line values and wins
// over every other source.
func Load(configFile string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. User config file, if one exists
	path := findConfigFile(configFile)
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
	}

	// 3. Environment variables (SHIPWAY_BASE_PATH -> base_path)
	if err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Command-line overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply command-line overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the merged configuration before any filesystem work runs.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return errors.New(errors.ErrConfigMissing, "app_name is required")
	}

	switch c.RestartMethod {
	case RestartSystemctl, RestartTouch, RestartNone:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"restart_method must be one of systemctl, touch, none; got %q", c.RestartMethod)
	}

	for key, value := range map[string]string{
		"base_path":    c.BasePath,
		"build_path":   c.BuildPath,
		"conf_base":    c.ConfBase,
		"logs_base":    c.LogsBase,
		"runtime_base": c.RuntimeBase,
		"tmp_base":     c.TmpBase,
		"state_base":   c.StateBase,
		"cache_base":   c.CacheBase,
	} {
		if !filepath.IsAbs(value) {
			return errors.Newf(errors.ErrConfigValid, "%s must be an absolute path; got %q", key, value)
		}
	}

	return nil
}

// findConfigFile resolves the user config file location. Returns the empty
// string when no config file exists, which is not an error.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if fromEnv := os.Getenv(EnvConfigFile); fromEnv != "" {
		return fromEnv
	}

	for _, name := range []string{"config.toml", "config.yaml"} {
		candidate := filepath.Join(xdg.ConfigHome, "shipway", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// parserFor picks a koanf parser based on the file extension
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
