package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/djh00t/relcommit/internal/secrets"
)

// errSecretsFound fails the command so pre-commit blocks the commit.
var errSecretsFound = errors.New("unencrypted secrets found")

func newSecretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Guard commits against unencrypted secrets",
	}
	cmd.AddCommand(newSecretsScanCmd(), newSecretsChecksCmd())
	return cmd
}

func newSecretsScanCmd() *cobra.Command {
	var (
		opts    secrets.Options
		exclude []string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan files for secrets and encrypt offenders with sops",
		Long: `Scan the given files for unencrypted secrets. Offending files are encrypted
in place with sops using the project's age key pair, and the command exits
non-zero so the files can be re-staged. Use --dry-run to only report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config.Get().Secrets
			keys, err := secrets.LoadKeys(deps.Root, cfg.AgePublicKeyFile, cfg.AgePrivateKeyFile)
			if err != nil {
				return err
			}
			opts.Keys = keys
			opts.Exclude = append(slices.Clone(cfg.Exclude), exclude...)

			bar := deps.Progress.Start("Scanning files", len(args))
			opts.OnInspect = func(secrets.FileResult) { bar.Increment(1) }

			scanner, err := secrets.NewScanner(opts, deps.Encryptor)
			if err != nil {
				bar.Done()
				return err
			}
			report, err := scanner.Scan(cmd.Context(), args)
			bar.Done()
			if report != nil {
				if _, werr := fmt.Fprintln(cmd.OutOrStdout(), secrets.FormatReport(report, verbose)); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}
			if report.ShouldFail() {
				return errSecretsFound
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Check, "check", secrets.CheckAll, "Check id to run (see 'secrets checks')")
	f.StringArrayVar(&exclude, "exclude", nil, "Regular expression of paths to skip (repeatable)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Report secrets without encrypting")
	f.BoolVarP(&verbose, "verbose", "v", false, "List clean and excluded files too")
	return cmd
}

func newSecretsChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the available secret checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range secrets.KnownChecks() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", id, secrets.CheckName(id)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
