package provision

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shipway/pkg/config"
	"github.com/arthur-debert/shipway/pkg/executor"
	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/logging"
	"github.com/arthur-debert/shipway/pkg/paths"
	"github.com/arthur-debert/shipway/pkg/templates"
)

// rootCreds owns system-level files (unit, sudoers)
var rootCreds = identity.Credentials{User: "root", Group: "root", UID: 0, GID: 0}

// Provisioner runs the init flow: directory tree, helper scripts,
// systemd unit, sudoers entry, service enablement. All side effects go
// through the executor, so the whole flow is dry-runnable.
type Provisioner struct {
	cfg      *config.Config
	paths    paths.Paths
	owner    identity.Credentials
	exec     executor.Executor
	renderer *templates.Renderer
	logger   zerolog.Logger
}

// New creates a provisioner
func New(cfg *config.Config, p paths.Paths, owner identity.Credentials, exec executor.Executor, renderer *templates.Renderer) *Provisioner {
	return &Provisioner{
		cfg:      cfg,
		paths:    p,
		owner:    owner,
		exec:     exec,
		renderer: renderer,
		logger:   logging.GetLogger("provision"),
	}
}

// Run provisions everything the application needs before its first
// deploy. Any failure aborts immediately; nothing is cleaned up.
func (pr *Provisioner) Run() error {
	if err := pr.createDirectories(); err != nil {
		return err
	}
	if err := pr.installScripts(); err != nil {
		return err
	}
	if err := pr.installUnit(); err != nil {
		return err
	}
	if err := pr.installSudoers(); err != nil {
		return err
	}
	return pr.enableService()
}

func (pr *Provisioner) createDirectories() error {
	for _, spec := range Specs(pr.cfg, pr.paths, pr.owner) {
		pr.logger.Debug().
			Str("path", spec.Path).
			Str("purpose", spec.Description).
			Msg("Provisioning directory")
		if err := pr.exec.CreateDir(spec.Path, spec.Owner, spec.Mode); err != nil {
			return err
		}
	}
	return nil
}

func (pr *Provisioner) installScripts() error {
	vars := pr.templateVars()
	for _, name := range []string{"remote_console.sh", "restart.sh"} {
		rendered, err := pr.renderer.Render(name, vars)
		if err != nil {
			return err
		}
		dest := filepath.Join(pr.paths.ScriptsPath, name)
		if err := pr.exec.WriteFile(dest, []byte(rendered), pr.owner, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (pr *Provisioner) installUnit() error {
	rendered, err := pr.renderer.Render("unit.service", pr.templateVars())
	if err != nil {
		return err
	}
	return pr.exec.WriteFile(pr.paths.UnitPath(), []byte(rendered), rootCreds, 0644)
}

func (pr *Provisioner) installSudoers() error {
	if !pr.cfg.SudoEnabled {
		return nil
	}
	rendered, err := pr.renderer.Render("sudoers", pr.templateVars())
	if err != nil {
		return err
	}
	return pr.exec.WriteFile(pr.paths.SudoersPath(), []byte(rendered), rootCreds, 0440)
}

func (pr *Provisioner) enableService() error {
	if pr.cfg.RestartMethod != config.RestartSystemctl {
		return nil
	}
	if err := pr.exec.Run("systemctl", "daemon-reload"); err != nil {
		return err
	}
	return pr.exec.Run("systemctl", "enable", pr.paths.UnitName())
}

func (pr *Provisioner) templateVars() map[string]string {
	return map[string]string{
		"AppName":       pr.cfg.AppName,
		"ExtName":       pr.paths.ExtName,
		"User":          pr.cfg.User,
		"Group":         pr.cfg.Group,
		"CurrentPath":   pr.paths.CurrentPath,
		"FlagsPath":     pr.paths.FlagsPath,
		"UnitName":      pr.paths.UnitName(),
		"RestartMethod": string(pr.cfg.RestartMethod),
	}
}
