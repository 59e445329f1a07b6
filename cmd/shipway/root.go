package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/shipway/internal/version"
	"github.com/arthur-debert/shipway/pkg/config"
	"github.com/arthur-debert/shipway/pkg/executor"
	"github.com/arthur-debert/shipway/pkg/filesystem"
	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/logging"
	"github.com/arthur-debert/shipway/pkg/paths"
)

// rootFlags holds the persistent flag values for one command tree
type rootFlags struct {
	verbosity  int
	dryRun     bool
	configFile string
}

// NewRootCmd builds the shipway command tree. Each call returns a fresh
// tree so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "shipway",
		Short: "Deploy packaged releases to the local machine",
		Long: `shipway deploys a packaged application release to the local machine:
it provisions target directories, renders helper scripts, installs systemd
units, and manages the "current" release symlink with rollback.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Print the commands that would run without executing them")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/shipway/config.toml)")

	rootCmd.AddCommand(newDeployCmd(flags))
	rootCmd.AddCommand(newRollbackCmd(flags))
	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// environment is everything a command needs to perform its work
type environment struct {
	cfg   *config.Config
	paths paths.Paths
	exec  executor.Executor
	owner identity.Credentials
}

// setup loads configuration, resolves the layout, and picks the
// executor strategy for this invocation. In dry-run mode no identity
// lookup runs: the configured names are printed as-is.
func setup(cmd *cobra.Command, flags *rootFlags, overrides map[string]interface{}) (*environment, error) {
	cfg, err := config.Load(flags.configFile, overrides)
	if err != nil {
		return nil, err
	}

	p, err := paths.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, paths: p}

	if flags.dryRun {
		env.exec = executor.NewDryRun(cmd.OutOrStdout())
		env.owner = identity.Credentials{User: cfg.User, Group: cfg.Group}
		return env, nil
	}

	owner, err := identity.NewResolver().Lookup(cfg.User, cfg.Group)
	if err != nil {
		return nil, err
	}
	env.exec = executor.NewReal(filesystem.NewOS())
	env.owner = owner

	return env, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shipway version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
