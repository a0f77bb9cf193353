package cli

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avdw/git-changelog/internal/changelog"
	"github.com/avdw/git-changelog/internal/progress"
)

func runChangelog(cmd *cobra.Command, opts *options, args []string) error {
	s, err := newSession(cmd, opts, opts.input == "")
	if err != nil {
		return err
	}
	defer s.close()

	presenter, err := s.presenter()
	if err != nil {
		return err
	}

	commits, previous, err := collect(cmd, s, opts, args)
	if err != nil {
		return err
	}

	plan := changelog.NewAssembler(s.cfg.ReleaseLabels()).Assemble(commits, previous)
	if plan.Release != nil {
		s.logger.Debug("release computed",
			zap.Stringer("version", plan.Release.Version),
			zap.Stringer("bump", plan.Release.Bump),
			zap.Bool("recommend", plan.Release.Recommend),
		)
	}

	formatOpts := changelog.FormatOptions{
		Plain: s.cfg.Plain || !progress.DetectTerminalCapabilities(os.Stdout).SupportsColor,
	}

	// Render fully before writing so a failure leaves stdout empty.
	var buf bytes.Buffer
	if err := changelog.Render(plan, presenter, &buf, formatOpts); err != nil {
		return err
	}
	_, err = buf.WriteTo(cmd.OutOrStdout())
	return err
}

// collect gathers the commits of the run and the previous version, either
// from --input or from the repository.
func collect(cmd *cobra.Command, s *session, opts *options, args []string) ([]changelog.Commit, *changelog.VersionNumber, error) {
	if opts.input != "" {
		commits, err := readInput(opts.input, cmd.InOrStdin())
		if err != nil {
			return nil, nil, err
		}
		previous, err := s.previousVersion(opts.previous, nil)
		return commits, previous, err
	}

	commits, tags, err := gitHistory(cmd.Context(), s, opts, args)
	if err != nil {
		return nil, nil, err
	}
	previous, err := s.previousVersion(opts.previous, tags)
	return commits, previous, err
}

func gitHistory(ctx context.Context, s *session, opts *options, args []string) ([]changelog.Commit, *tagLookup, error) {
	rc, err := s.runContext(args)
	if err != nil {
		return nil, nil, err
	}
	return s.history(ctx, rc, opts.checkout)
}

// readInput parses JSON Lines commits from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]changelog.Commit, error) {
	if path == "-" {
		return changelog.ParseCommits(stdin)
	}
	return changelog.Load(path)
}
