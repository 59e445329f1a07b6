package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/shipway/pkg/config"
	"github.com/arthur-debert/shipway/pkg/errors"
)

// Directory and file names under the deploy path.
// IMPORTANT: These constants define shipway's on-disk layout and are NOT
// user-configurable. They must remain consistent across installations so
// that deploys and rollbacks agree on where releases live.
const (
	// ReleasesDir holds one timestamped directory per extracted release
	ReleasesDir = "releases"

	// ScriptsDir holds rendered helper scripts
	ScriptsDir = "scripts"

	// FlagsDir is watched externally to trigger restarts
	FlagsDir = "flags"

	// TemplatesDir holds user template overrides
	TemplatesDir = "templates"

	// CurrentLink is the symlink naming the active release
	CurrentLink = "current"
)

// Paths is the fully resolved deployment layout for one application.
// Every field is an absolute path.
type Paths struct {
	// ExtName is the application name with underscores replaced by hyphens
	ExtName string

	DeployPath   string
	ReleasesPath string
	ScriptsPath  string
	FlagsPath    string
	CurrentPath  string

	TemplatesPath string

	// Per-category directories, defaulted to "<base>/<ext name>" unless
	// explicitly overridden in configuration
	ConfPath    string
	LogsPath    string
	RuntimePath string
	TmpPath     string
	StatePath   string
	CachePath   string

	appName   string
	version   string
	buildPath string
}

// ExtName derives the external name from the application's internal name:
// every underscore becomes a hyphen, no other character is altered.
func ExtName(appName string) string {
	return strings.ReplaceAll(appName, "_", "-")
}

// Resolve computes the deployment layout from the configuration.
// It fails only when required inputs are absent; everything else is
// deterministic string assembly.
func Resolve(cfg *config.Config) (Paths, error) {
	if cfg.AppName == "" {
		return Paths{}, errors.New(errors.ErrConfigMissing, "app_name is required to resolve paths")
	}

	ext := ExtName(cfg.AppName)
	deploy := filepath.Join(cfg.BasePath, cfg.AppName)

	p := Paths{
		ExtName:      ext,
		DeployPath:   deploy,
		ReleasesPath: filepath.Join(deploy, ReleasesDir),
		ScriptsPath:  filepath.Join(deploy, ScriptsDir),
		FlagsPath:    filepath.Join(deploy, FlagsDir),
		CurrentPath:  filepath.Join(deploy, CurrentLink),

		TemplatesPath: orDefault(cfg.TemplatesPath, filepath.Join(deploy, TemplatesDir)),

		ConfPath:    orDefault(cfg.ConfPath, filepath.Join(cfg.ConfBase, ext)),
		LogsPath:    orDefault(cfg.LogsPath, filepath.Join(cfg.LogsBase, ext)),
		RuntimePath: orDefault(cfg.RuntimePath, filepath.Join(cfg.RuntimeBase, ext)),
		TmpPath:     orDefault(cfg.TmpPath, filepath.Join(cfg.TmpBase, ext)),
		StatePath:   orDefault(cfg.StatePath, filepath.Join(cfg.StateBase, ext)),
		CachePath:   orDefault(cfg.CachePath, filepath.Join(cfg.CacheBase, ext)),

		appName:   cfg.AppName,
		version:   cfg.Version,
		buildPath: cfg.BuildPath,
	}

	if err := p.validate(); err != nil {
		return Paths{}, err
	}

	return p, nil
}

// ReleasePath returns the directory for a given release identifier
func (p Paths) ReleasePath(releaseID string) string {
	return filepath.Join(p.ReleasesPath, releaseID)
}

// ArchivePath returns the deterministic location of the release archive
// for the configured version.
func (p Paths) ArchivePath() (string, error) {
	if p.version == "" {
		return "", errors.New(errors.ErrConfigMissing, "version is required to locate the release archive")
	}
	return filepath.Join(p.buildPath, fmt.Sprintf("%s-%s.tar.gz", p.appName, p.version)), nil
}

// UnitName returns the systemd unit name for the application
func (p Paths) UnitName() string {
	return p.ExtName + ".service"
}

// UnitPath returns the install location of the systemd unit file
func (p Paths) UnitPath() string {
	return filepath.Join("/etc/systemd/system", p.UnitName())
}

// SudoersPath returns the install location of the sudoers entry
func (p Paths) SudoersPath() string {
	return filepath.Join("/etc/sudoers.d", p.ExtName)
}

// validate enforces the invariant that every path-producing value is
// absolute before any filesystem operation runs.
func (p Paths) validate() error {
	for name, path := range map[string]string{
		"deploy path":    p.DeployPath,
		"releases path":  p.ReleasesPath,
		"scripts path":   p.ScriptsPath,
		"flags path":     p.FlagsPath,
		"current path":   p.CurrentPath,
		"templates path": p.TemplatesPath,
		"conf path":      p.ConfPath,
		"logs path":      p.LogsPath,
		"runtime path":   p.RuntimePath,
		"tmp path":       p.TmpPath,
		"state path":     p.StatePath,
		"cache path":     p.CachePath,
	} {
		if !filepath.IsAbs(path) {
			return errors.Newf(errors.ErrConfigValid, "%s must be absolute; got %q", name, path)
		}
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
