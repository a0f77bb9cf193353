package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/avdw/git-changelog/internal/changelog"
)

func newLogCmd(opts *options) *cobra.Command {
	var checkout bool

	cmd := &cobra.Command{
		Use:   "log [to] [from]",
		Short: "Print the commits of the changelog range as JSON Lines",
		Long: `Print the commits the changelog would be built from, one JSON object per line
with the fields hash, short, author, email, date and subject.

The range is resolved exactly like the changelog command resolves it. The
output can be edited and rendered later with --input.`,
		Example: `  # Commits since the latest tag of master
  git-changelog log

  # Export, then render offline
  git-changelog log master v1.0.0 > commits.jsonl
  git-changelog --input commits.jsonl --previous 1.0.0`,
		Args: validateRootArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, opts, checkout, args)
		},
	}
	cmd.GroupID = GroupChangelog
	cmd.Flags().BoolVar(&checkout, "checkout", false, "Check out <to> before reading history")
	return cmd
}

func runLog(cmd *cobra.Command, opts *options, checkout bool, args []string) error {
	s, err := newSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer s.close()

	rc, err := s.runContext(args)
	if err != nil {
		return err
	}
	commits, _, err := s.history(cmd.Context(), rc, checkout)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := changelog.WriteCommits(&buf, commits); err != nil {
		return err
	}
	_, err = buf.WriteTo(cmd.OutOrStdout())
	return err
}
