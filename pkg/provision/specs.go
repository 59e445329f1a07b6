// Package provision sets up the directory tree, helper scripts, systemd
// unit, and sudoers entry an application needs before its first deploy.
package provision

import (
	"os"

	"github.com/arthur-debert/shipway/pkg/config"
	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/paths"
)

// systemdManagedVersion is the systemd release that introduced
// RuntimeDirectory=, StateDirectory=, CacheDirectory=, LogsDirectory=
// and ConfigurationDirectory=. From that version on, systemd creates
// and owns those directories itself and shipway must not.
const systemdManagedVersion = 235

// DirectorySpec describes a directory that must exist with given
// ownership before the service runs.
type DirectorySpec struct {
	Path        string
	Owner       identity.Credentials
	Mode        os.FileMode
	Description string
}

// Specs builds the ordered list of directories to provision. The deploy
// tree is always included; per-category directories are gated on their
// create_* flag and skipped entirely when systemd manages the category.
func Specs(cfg *config.Config, p paths.Paths, owner identity.Credentials) []DirectorySpec {
	specs := []DirectorySpec{
		{p.DeployPath, owner, 0755, "deploy root"},
		{p.ReleasesPath, owner, 0755, "release directories"},
		{p.ScriptsPath, owner, 0755, "helper scripts"},
		{p.FlagsPath, owner, 0775, "restart flags"},
	}

	managed := cfg.SystemdVersion >= systemdManagedVersion

	if cfg.CreateConfDir && !managed {
		specs = append(specs, DirectorySpec{p.ConfPath, owner, 0750, "configuration"})
	}
	if cfg.CreateLogsDir && !managed {
		specs = append(specs, DirectorySpec{p.LogsPath, owner, 0750, "logs"})
	}
	if cfg.CreateRuntimeDir && !managed {
		specs = append(specs, DirectorySpec{p.RuntimePath, owner, 0755, "runtime"})
	}
	if cfg.CreateStateDir && !managed {
		specs = append(specs, DirectorySpec{p.StatePath, owner, 0750, "state"})
	}
	if cfg.CreateCacheDir && !managed {
		specs = append(specs, DirectorySpec{p.CachePath, owner, 0750, "cache"})
	}

	// Tmp is never systemd-managed
	if cfg.CreateTmpDir {
		specs = append(specs, DirectorySpec{p.TmpPath, owner, 0750, "tmp"})
	}

	return specs
}
