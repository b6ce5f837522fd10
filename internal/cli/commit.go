package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/djh00t/relcommit/internal/changelog"
	"github.com/djh00t/relcommit/internal/commit"
)

// errLintFailed is returned when a message violates the convention.
var errLintFailed = errors.New("commit message does not follow the convention")

func newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Parse and lint conventional commit messages",
	}
	cmd.AddCommand(newCommitParseCmd(), newCommitLintCmd())
	return cmd
}

// parsedCommit is the YAML view printed by commit parse.
type parsedCommit struct {
	Type     string       `yaml:"type"`
	Scope    string       `yaml:"scope,omitempty"`
	Subject  string       `yaml:"subject"`
	Breaking bool         `yaml:"breaking"`
	Emoji    string       `yaml:"emoji,omitempty"`
	Notes    []commitNote `yaml:"notes,omitempty"`
	Release  string       `yaml:"release"`
	Label    string       `yaml:"label"`
}

type commitNote struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

func newCommitParseCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "parse [message]",
		Short: "Parse a commit message and show its release impact",
		Long: `Parse a conventional commit message with the active profile's grammar and
print its parts, the release type it triggers and its changelog label.
The message is read from the arguments, from --file, or from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}
			profile := deps.Config.Get().Release
			parser, err := profile.CommitParser()
			if err != nil {
				return err
			}
			rules, err := profile.Rules()
			if err != nil {
				return err
			}

			c, err := parser.ParseMessage(msg)
			if err != nil {
				return err
			}

			view := parsedCommit{
				Type:     c.Header.Type,
				Scope:    c.Header.Scope,
				Subject:  c.Header.Subject,
				Breaking: c.IsBreaking(),
				Emoji:    c.Header.Emoji,
				Release:  rules.Classify(c).String(),
				Label:    changelog.Label(c.Header.Type),
			}
			for _, n := range c.Notes {
				view.Notes = append(view.Notes, commitNote{Title: n.Title, Text: n.Text})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return fmt.Errorf("encode commit: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the message from a file (- for stdin)")
	return cmd
}

func newCommitLintCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "lint [message]",
		Short: "Check a commit message against the convention",
		Long: `Check a commit message against the configured types, scopes and header
length. Suitable as a commit-msg hook:

  relcommit commit lint --file "$1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}
			cfg := deps.Config.Get()
			parser, err := cfg.Release.CommitParser()
			if err != nil {
				return err
			}

			result := commit.Validate(msg, &commit.Convention{
				Name:      cfg.Release.Name,
				Parser:    parser,
				Types:     cfg.Lint.Types,
				Scopes:    cfg.Lint.Scopes,
				MaxLength: cfg.Lint.MaxLength,
			})
			out := cmd.OutOrStdout()
			if result.Valid {
				_, err := fmt.Fprintln(out, deps.Theme.SuccessCard("Commit message OK"))
				return err
			}

			details := make([]string, 0, len(result.Violations))
			for _, v := range result.Violations {
				line := fmt.Sprintf("%s: expected %s", v.Field, v.Expected)
				if v.Actual != "" {
					line += fmt.Sprintf(", got %q", v.Actual)
				}
				if v.Suggestion != "" {
					line += "\n  try: " + v.Suggestion
				}
				details = append(details, line)
			}
			_, _ = fmt.Fprintln(out, deps.Theme.ErrorCard("Commit message rejected", details...))
			return errLintFailed
		},
	}
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the message from a file (- for stdin)")
	return cmd
}

// readMessage returns the commit message from args, a file or stdin.
// Git comment lines are dropped so COMMIT_EDITMSG can be linted as is.
func readMessage(stdin io.Reader, args []string, file string) (string, error) {
	var raw string
	switch {
	case len(args) > 0:
		raw = strings.Join(args, " ")
	case file != "" && file != "-":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read message: %w", err)
		}
		raw = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read message: %w", err)
		}
		raw = string(data)
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), nil
}
