package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shipway/pkg/config"
	"github.com/arthur-debert/shipway/pkg/errors"
)

func baseConfig() *config.Config {
	return &config.Config{
		AppName:     "my_app",
		Version:     "1.2.3",
		BasePath:    "/srv",
		BuildPath:   "/tmp/build",
		ConfBase:    "/etc",
		LogsBase:    "/var/log",
		RuntimeBase: "/run",
		TmpBase:     "/var/tmp",
		StateBase:   "/var/lib",
		CacheBase:   "/var/cache",
	}
}

func TestExtName(t *testing.T) {
	tests := []struct {
		name     string
		appName  string
		expected string
	}{
		{"single underscore", "my_app", "my-app"},
		{"multiple underscores", "my_app_name", "my-app-name"},
		{"no underscores", "myapp", "myapp"},
		{"only underscores", "___", "---"},
		{"other characters untouched", "my_app.v2", "my-app.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtName(tt.appName))
		})
	}
}

func TestResolveLayout(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "my-app", p.ExtName)
	assert.Equal(t, "/srv/my_app", p.DeployPath)
	assert.Equal(t, "/srv/my_app/releases", p.ReleasesPath)
	assert.Equal(t, "/srv/my_app/scripts", p.ScriptsPath)
	assert.Equal(t, "/srv/my_app/flags", p.FlagsPath)
	assert.Equal(t, "/srv/my_app/current", p.CurrentPath)
	assert.Equal(t, "/srv/my_app/templates", p.TemplatesPath)
}

func TestResolveCategoryDefaults(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "/etc/my-app", p.ConfPath)
	assert.Equal(t, "/var/log/my-app", p.LogsPath)
	assert.Equal(t, "/run/my-app", p.RuntimePath)
	assert.Equal(t, "/var/tmp/my-app", p.TmpPath)
	assert.Equal(t, "/var/lib/my-app", p.StatePath)
	assert.Equal(t, "/var/cache/my-app", p.CachePath)
}

func TestResolveCategoryOverrides(t *testing.T) {
	cfg := baseConfig()
	cfg.ConfPath = "/custom/etc/myapp"
	cfg.LogsPath = "/custom/log"

	p, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, "/custom/etc/myapp", p.ConfPath)
	assert.Equal(t, "/custom/log", p.LogsPath)
	// Non-overridden categories keep their defaults
	assert.Equal(t, "/run/my-app", p.RuntimePath)
}

func TestResolveIsPure(t *testing.T) {
	cfg := baseConfig()

	first, err := Resolve(cfg)
	require.NoError(t, err)
	second, err := Resolve(cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveMissingAppName(t *testing.T) {
	cfg := baseConfig()
	cfg.AppName = ""

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestResolveRelativeOverrideRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.LogsPath = "var/log/my-app"

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestResolveAllPathsAbsolute(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	for _, path := range []string{
		p.DeployPath, p.ReleasesPath, p.ScriptsPath, p.FlagsPath, p.CurrentPath,
		p.TemplatesPath, p.ConfPath, p.LogsPath, p.RuntimePath, p.TmpPath,
		p.StatePath, p.CachePath,
	} {
		assert.True(t, filepath.IsAbs(path), "expected absolute path, got %q", path)
	}
}

func TestReleasePath(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "/srv/my_app/releases/20230102000000", p.ReleasePath("20230102000000"))
}

func TestArchivePath(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	archive, err := p.ArchivePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/build/my_app-1.2.3.tar.gz", archive)
}

func TestArchivePathMissingVersion(t *testing.T) {
	cfg := baseConfig()
	cfg.Version = ""

	p, err := Resolve(cfg)
	require.NoError(t, err)

	_, err = p.ArchivePath()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestUnitAndSudoersPaths(t *testing.T) {
	p, err := Resolve(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "my-app.service", p.UnitName())
	assert.Equal(t, "/etc/systemd/system/my-app.service", p.UnitPath())
	assert.Equal(t, "/etc/sudoers.d/my-app", p.SudoersPath())
}
