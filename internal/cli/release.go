package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/djh00t/relcommit/internal/changelog"
	"github.com/djh00t/relcommit/internal/config"
	"github.com/djh00t/relcommit/internal/github"
	"github.com/djh00t/relcommit/internal/pipeline"
	"github.com/djh00t/relcommit/internal/ui"
)

// Prompt keys answered by --yes.
const confirmCreatePR = "create_pr"

// errNothingToRelease is returned by commands that need a release when
// the commits do not warrant one.
var errNothingToRelease = errors.New("no release-worthy commits since the last release")

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Analyse commits and produce release artefacts",
	}
	cmd.AddCommand(
		newReleaseAnalyzeCmd(),
		newReleaseNotesCmd(),
		newReleaseChangelogCmd(),
		newReleaseProfileCmd(),
		newReleasePRCmd(),
	)
	return cmd
}

// planOptions are the branch flags shared by release subcommands.
type planOptions struct {
	branch    string
	anyBranch bool
}

func (o *planOptions) register(cmd *cobra.Command, anyDefault bool) {
	cmd.Flags().StringVar(&o.branch, "branch", "", "Branch to plan for (default: checked-out branch)")
	cmd.Flags().BoolVar(&o.anyBranch, "any-branch", anyDefault, "Plan a regular release from branches the profile does not list")
}

// planRelease computes the release plan for the active profile.
func planRelease(cmd *cobra.Command, opts planOptions) (*pipeline.Plan, error) {
	if err := deps.EnsureGit(); err != nil {
		return nil, err
	}
	branch := opts.branch
	if branch == "" {
		b, err := deps.Branch()
		if err != nil {
			return nil, err
		}
		branch = b
	}

	profile := deps.Config.Get().Release
	getenv := deps.Config.Getenv()

	var changelogPath string
	if profile.Changelog.File != "" {
		changelogPath = filepath.Join(deps.Root, config.Expand(profile.Changelog.File, config.Vars{Getenv: getenv}))
	}

	sp := deps.Progress.Spinner("Analysing commits on " + branch)
	defer sp.Stop()

	return pipeline.New(deps.History).Plan(cmd.Context(), pipeline.Request{
		Profile:       profile,
		Branch:        branch,
		AnyBranch:     opts.anyBranch,
		ChangelogPath: changelogPath,
		Getenv:        getenv,
	})
}

func newReleaseAnalyzeCmd() *cobra.Command {
	var (
		opts     planOptions
		showExec bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the version the commits since the last release warrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := planRelease(cmd, opts)
			if err != nil {
				return err
			}

			last := plan.LastVersion
			if last == "" {
				last = "none"
			}
			lines := []string{
				deps.Theme.KeyValue("profile", plan.Profile.Name, 9),
				deps.Theme.KeyValue("branch", plan.Branch.Name, 9),
				deps.Theme.KeyValue("last", last, 9),
				deps.Theme.KeyValue("commits", strconv.Itoa(len(plan.Commits)), 9),
				deps.Theme.KeyValue("bump", plan.Bump.String(), 9),
			}

			out := cmd.OutOrStdout()
			if !plan.Releasable() {
				_, err := fmt.Fprintln(out, deps.Theme.WarningCard("No release", lines...))
				return err
			}
			lines = append(lines,
				deps.Theme.KeyValue("version", plan.Version, 9),
				deps.Theme.KeyValue("tag", plan.Tag, 9),
			)
			if showExec {
				lines = append(lines, execLines(plan.Profile)...)
			}
			_, err = fmt.Fprintln(out, deps.Theme.SuccessCard("Release "+plan.Version, lines...))
			return err
		},
	}
	opts.register(cmd, false)
	cmd.Flags().BoolVar(&showExec, "exec", false, "Show the interpolated prepare and publish commands")
	return cmd
}

// execLines lists the profile's exec commands. They are shown, never run.
func execLines(p config.Profile) []string {
	var lines []string
	for _, c := range p.Exec.PrepareCmd {
		lines = append(lines, deps.Theme.Muted("prepare")+"  "+c)
	}
	for _, c := range p.Exec.PublishCmd {
		lines = append(lines, deps.Theme.Muted("publish")+"  "+c)
	}
	return lines
}

func newReleaseNotesCmd() *cobra.Command {
	var (
		opts    planOptions
		preview bool
	)
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Render the release notes for the next version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := planRelease(cmd, opts)
			if err != nil {
				return err
			}
			if !plan.Releasable() {
				return errNothingToRelease
			}

			notes := plan.Notes
			if preview {
				notes, err = ui.RenderMarkdown(deps.Theme, notes, 0)
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), notes)
			return err
		},
	}
	opts.register(cmd, true)
	cmd.Flags().BoolVar(&preview, "preview", false, "Render the markdown for the terminal")
	return cmd
}

func newReleaseChangelogCmd() *cobra.Command {
	var (
		opts   planOptions
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Prepend the next release notes to the changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := planRelease(cmd, opts)
			if err != nil {
				return err
			}
			if !plan.Releasable() {
				return errNothingToRelease
			}
			if plan.Profile.Changelog.File == "" {
				return fmt.Errorf("profile %s has no changelog file", plan.Profile.Name)
			}

			path := filepath.Join(deps.Root, plan.Profile.Changelog.File)
			if dryRun {
				_, err := fmt.Fprint(cmd.OutOrStdout(), plan.Notes)
				return err
			}
			if err := changelog.Prepend(path, plan.Profile.Changelog.Title, plan.Notes); err != nil {
				return err
			}
			deps.Logger.Info("changelog updated", "path", path, "version", plan.Version)
			_, err = fmt.Fprintln(cmd.OutOrStdout(),
				deps.Theme.SuccessCard("Changelog updated", deps.Theme.KeyValue("file", plan.Profile.Changelog.File, 7), deps.Theme.KeyValue("version", plan.Version, 7)))
			return err
		},
	}
	opts.register(cmd, false)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the notes instead of writing the file")
	return cmd
}

func newReleaseProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and initialise release profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			active := deps.Config.Get().Profile
			for _, name := range config.ProfileNames() {
				marker := "  "
				if name == active {
					marker = "* "
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), marker+name); err != nil {
					return err
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Print a profile as YAML (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := deps.Config.Get().Release
			if len(args) == 1 {
				p, err := config.BuiltinProfile(args[0])
				if err != nil {
					return err
				}
				profile = p
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(profile); err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			return enc.Close()
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the active configuration to " + config.FileNames[0],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if src := deps.Config.Get().Source; src != "" && !force {
				return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", src)
			}
			path, err := deps.Config.Save()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard("Configuration written", path))
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newReleasePRCmd() *cobra.Command {
	var (
		opts   planOptions
		base   string
		head   string
		labels []string
	)
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Open a pull request carrying the next release",
		Long: `Open a pull request titled "chore(release): <version>" whose body holds the
release notes. The head branch must already be pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := planRelease(cmd, opts)
			if err != nil {
				return err
			}
			if !plan.Releasable() {
				return errNothingToRelease
			}

			if base == "" {
				base = deps.Config.Get().PRBody.BaseBranch
			}
			if head == "" {
				head = plan.Branch.Name
			}

			ok, err := deps.Prompt.Confirm(confirmCreatePR,
				fmt.Sprintf("Open release PR %s from %s into %s?", plan.Version, head, base), true)
			if err != nil {
				return err
			}
			if !ok {
				return ui.ErrCancelled
			}

			ctx := cmd.Context()
			if err := deps.GitHub.IsAuthenticated(ctx); err != nil {
				return err
			}

			sp := deps.Progress.Spinner("Creating pull request")
			number, err := deps.GitHub.PRCreate(ctx, github.ReleasePR{
				Version:    plan.Version,
				Notes:      plan.Notes,
				Prerelease: plan.Branch.Prerelease,
				Base:       base,
				Head:       head,
				Labels:     append(slices.Clone(plan.Profile.GitHub.PRLabels), labels...),
			}.Options())
			sp.Stop()
			if err != nil {
				return err
			}

			details := []string{deps.Theme.KeyValue("number", "#"+strconv.Itoa(number), 6)}
			if pr, err := deps.GitHub.PRView(ctx, number); err == nil && pr.URL != "" {
				details = append(details, deps.Theme.KeyValue("url", pr.URL, 6))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard("Release PR opened", details...))
			return err
		},
	}
	opts.register(cmd, false)
	cmd.Flags().StringVar(&base, "base", "", "Base branch (default: pr_body.base_branch)")
	cmd.Flags().StringVar(&head, "head", "", "Head branch (default: the release branch)")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "Extra label for the pull request (repeatable)")
	return cmd
}
