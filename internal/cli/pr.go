package cli

import (
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/djh00t/relcommit/internal/prbody"
)

func newPRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Pull request helpers",
	}
	cmd.AddCommand(newPRBodyCmd())
	return cmd
}

func newPRBodyCmd() *cobra.Command {
	var (
		opts   prbody.Options
		output string
	)
	cmd := &cobra.Command{
		Use:   "body",
		Short: "Generate a pull request body from the branch's commits",
		Long: `Generate a pull request body from the subjects of the commits the current
branch adds over <remote>/<dest>, grouped by conventional type. Summary and
motivation text come from the configured helper commands; the PR number
comes from gh. Missing helpers fall back to placeholder text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := deps.Config.Get().PRBody
			if opts.DestBranch == "" {
				opts.DestBranch = cfg.BaseBranch
			}
			if opts.Remote == "" {
				opts.Remote = cfg.Remote
			}
			if opts.TemplateFile == "" {
				opts.TemplateFile = cfg.Template
			}
			opts.SummaryCommand = cfg.SummaryCommand
			opts.ContextCommand = cfg.ContextCommand

			sp := deps.Progress.Spinner("Collecting commits against " + opts.Remote + "/" + opts.DestBranch)
			body, err := prbody.NewGenerator(deps.Subjects, deps.GitHub).Generate(cmd.Context(), opts)
			sp.Stop()
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if err := renameio.WriteFile(output, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write PR body: %w", err)
			}
			deps.Logger.Info("PR body written", "path", output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.SourceBranch, "source", "", "Source branch name shown in the body (default: checked-out branch)")
	f.StringVar(&opts.DestBranch, "dest", "", "Destination branch (default: pr_body.base_branch)")
	f.StringVar(&opts.Remote, "remote", "", "Remote holding the destination branch (default: pr_body.remote)")
	f.BoolVar(&opts.SkipFetch, "skip-fetch", false, "Do not fetch the destination branch first")
	f.StringVar(&opts.TemplateFile, "template", "", "Body template file (default: built-in layout)")
	f.StringVarP(&output, "output", "o", "", "Write the body to a file instead of stdout")
	return cmd
}
