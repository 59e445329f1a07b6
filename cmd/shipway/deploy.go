package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/shipway/pkg/release"
)

func newDeployCmd(flags *rootFlags) *cobra.Command {
	var versionOverride string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a new release and repoint the current link",
		Long: `Deploy extracts the release archive into a fresh timestamped directory
under releases/ and atomically repoints the "current" symlink at it.
The previous release directory is kept on disk for rollback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if versionOverride != "" {
				overrides["version"] = versionOverride
			}

			env, err := setup(cmd, flags, overrides)
			if err != nil {
				return err
			}

			installer := release.NewInstaller(env.paths, env.owner, env.exec)
			id, err := installer.Install()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deployed release %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&versionOverride, "version", "", "Release version to deploy (overrides configuration)")

	return cmd
}
