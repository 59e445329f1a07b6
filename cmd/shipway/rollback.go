package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/shipway/pkg/filesystem"
	"github.com/arthur-debert/shipway/pkg/release"
)

func newRollbackCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Repoint the current link at the previous release",
		Long: `Rollback repoints the "current" symlink at the release immediately
prior to the newest one. With fewer than two releases present this is
a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags, nil)
			if err != nil {
				return err
			}

			rb := release.NewRollback(env.paths, filesystem.NewOS(), env.exec)
			id, err := rb.Run()
			if err != nil {
				return err
			}

			if id == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back to.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back to release %s\n", id)
			return nil
		},
	}
}
