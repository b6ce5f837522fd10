package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/djh00t/relcommit/pkg/version"
)

// newRootCmd builds the full command tree.
func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "relcommit",
		Short: "Conventional-commit release tooling",
		Long: `relcommit evaluates conventional commits to decide the next semantic
version, renders release notes and changelogs from named release profiles,
generates pull request bodies and guards commits against unencrypted secrets.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if deps != nil {
				return nil
			}
			d, err := InitDependencies(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			deps = d
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("relcommit %s\n", version.GetVersion()))

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.dir, "dir", "C", "", "Project directory (default: current directory)")
	pf.StringVar(&flags.profile, "profile", "", "Release profile (overrides "+envProfileHint+")")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colour and animations")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "Answer yes to every prompt and never ask")

	root.AddCommand(
		newCommitCmd(),
		newReleaseCmd(),
		newPRCmd(),
		newSecretsCmd(),
		newVersionCmd(),
	)
	return root
}

const envProfileHint = "RELCOMMIT_PROFILE and the config file"

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}
