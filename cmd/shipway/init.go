package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/shipway/pkg/filesystem"
	"github.com/arthur-debert/shipway/pkg/provision"
	"github.com/arthur-debert/shipway/pkg/templates"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Provision the directory tree, scripts, and systemd unit",
		Long: `Init creates the deploy directory tree with correct ownership, renders
the helper scripts, installs the systemd unit (and sudoers entry when
enabled), and enables the service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags, nil)
			if err != nil {
				return err
			}

			// Template overrides are read-only, so the OS filesystem is
			// safe in dry-run mode too.
			renderer := templates.New(env.paths.TemplatesPath, filesystem.NewOS())

			pr := provision.New(env.cfg, env.paths, env.owner, env.exec, renderer)
			if err := pr.Run(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", env.paths.DeployPath)
			return nil
		},
	}
}
