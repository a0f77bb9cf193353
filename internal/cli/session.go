package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avdw/git-changelog/internal/catalog"
	"github.com/avdw/git-changelog/internal/changelog"
	"github.com/avdw/git-changelog/internal/config"
	clierrors "github.com/avdw/git-changelog/internal/errors"
	"github.com/avdw/git-changelog/internal/git"
	"github.com/avdw/git-changelog/internal/logging"
	"github.com/avdw/git-changelog/internal/progress"
)

// session is the state of one command invocation: effective configuration,
// logger, and the repository when one is needed.
type session struct {
	cfg    *config.Configuration
	logger *zap.Logger
	repo   *git.Repository
	dir    string // project directory the configuration was read from
}

// newSession loads configuration and applies flag overrides. When needRepo is
// set the repository must open; otherwise a missing repository only means the
// project config is read from the working directory.
func newSession(cmd *cobra.Command, opts *options, needRepo bool) (*session, error) {
	dir, repo, repoErr := projectDir(opts.repository)
	if repoErr != nil && needRepo {
		return nil, repoErr
	}
	s := &session{dir: dir, repo: repo}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    dir,
		ConfigPath:    opts.configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	applyFlagOverrides(cmd, opts, cfg)
	opts.plain = cfg.Plain
	s.cfg = cfg

	s.logger = logging.New(cmd.ErrOrStderr(), cfg.Debug)
	git.SetDebugLogger(logging.GitDebugf(s.logger))
	if repoErr != nil {
		s.logger.Debug("continuing without repository", zap.Error(repoErr))
	}
	s.logger.Debug("configuration loaded",
		zap.String("project_dir", s.dir),
		zap.String("target_branch", cfg.TargetBranch),
		zap.String("locale", cfg.Locale),
	)
	return s, nil
}

// projectDir returns the directory holding the project config: the root of
// the repository containing path, or path itself outside a repository. The
// repository error is returned alongside a usable directory.
func projectDir(path string) (string, *git.Repository, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("getting current directory: %w", err)
		}
		path = wd
	}

	repo, err := git.Open(path)
	if err != nil {
		return path, nil, err
	}
	return repo.Root(), repo, nil
}

// applyFlagOverrides copies explicitly set flags over the loaded configuration.
func applyFlagOverrides(cmd *cobra.Command, opts *options, cfg *config.Configuration) {
	flags := cmd.Flags()
	if flags.Changed("locale") {
		cfg.Locale = opts.locale
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = opts.catalogPath
	}
	if flags.Changed("plain") {
		cfg.Plain = opts.plain
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
}

// close flushes the logger and detaches it from the git package.
func (s *session) close() {
	git.SetDebugLogger(nil)
	_ = s.logger.Sync()
}

// presenter loads the message catalog selected by the configuration.
func (s *session) presenter() (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if s.cfg.CatalogPath != "" {
		c, err = catalog.LoadFile(s.cfg.CatalogPath, s.cfg.Locale)
	} else {
		c, err = catalog.Load(s.cfg.Locale)
	}

	var localeErr *catalog.UnknownLocaleError
	if errors.As(err, &localeErr) {
		return nil, clierrors.UnknownLocale(localeErr.Locale, localeErr.Available, err)
	}
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return c, nil
}

// runContext captures the branches of this run once. to defaults to the
// configured target branch.
func (s *session) runContext(args []string) (changelog.RunContext, error) {
	rc := changelog.RunContext{TargetBranch: s.cfg.TargetBranch}
	if len(args) > 0 {
		rc.TargetBranch = args[0]
	}
	if len(args) > 1 {
		rc.ExplicitFrom = args[1]
	}

	current, err := s.repo.CurrentBranch()
	if err != nil {
		return rc, err
	}
	rc.CurrentBranch = current

	s.logger.Debug("run context",
		zap.String("current", rc.CurrentBranch),
		zap.String("target", rc.TargetBranch),
		zap.String("from", rc.ExplicitFrom),
	)
	return rc, nil
}

// tagLookup answers the latest tag of one revision at most once.
type tagLookup struct {
	repo *git.Repository
	rev  string

	done bool
	tag  string
	ok   bool
	err  error
}

func (l *tagLookup) latest() (string, bool, error) {
	if !l.done {
		l.tag, l.ok, l.err = l.repo.LatestTagFrom(l.rev)
		l.done = true
	}
	return l.tag, l.ok, l.err
}

// history resolves the range of the run and lists its commits. The returned
// lookup holds the latest tag of the target for previous version discovery.
func (s *session) history(ctx context.Context, rc changelog.RunContext, checkout bool) ([]changelog.Commit, *tagLookup, error) {
	if checkout {
		if err := s.repo.Checkout(rc.TargetBranch); err != nil {
			return nil, nil, err
		}
		rc.CurrentBranch = rc.TargetBranch
	}

	tags := &tagLookup{repo: s.repo, rev: rc.TargetBranch}
	firstCommit := func() (string, error) {
		return s.repo.FirstCommitFrom(rc.TargetBranch)
	}

	rng, err := rc.Range(tags.latest, firstCommit)
	if err != nil {
		return nil, nil, err
	}
	fields := []zap.Field{zap.String("from", rng.From), zap.String("to", rng.To)}
	if rng.Base != nil {
		fields = append(fields, zap.Stringer("base", rng.Base))
	}
	s.logger.Debug("resolved range", fields...)

	var commits []changelog.Commit
	indicator := progress.NewIndicator(os.Stderr, progress.DetectTerminalCapabilities(os.Stderr))
	err = indicator.Track("Reading history...", func() error {
		var err error
		commits, err = s.repo.ListCommits(ctx, rng.From, rng.To)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("commits listed", zap.Int("count", len(commits)))
	return commits, tags, nil
}

// previousVersion returns the version the next release builds on: the
// --previous flag when set, otherwise the latest tag of the target with the
// tag prefix removed. No tag means no previous version.
func (s *session) previousVersion(flag string, tags *tagLookup) (*changelog.VersionNumber, error) {
	if flag != "" {
		v, err := changelog.ParseVersion(flag)
		if err != nil {
			return nil, clierrors.AmbiguousVersion(err, s.cfg.TagPrefix)
		}
		return &v, nil
	}
	if tags == nil {
		return nil, nil
	}

	tag, ok, err := tags.latest()
	if err != nil || !ok {
		return nil, err
	}

	v, err := changelog.ParseTagVersion(tag, s.cfg.TagPrefix)
	if err != nil {
		return nil, clierrors.AmbiguousVersion(err, s.cfg.TagPrefix)
	}
	s.logger.Debug("previous version", zap.String("tag", tag), zap.Stringer("version", v))
	return &v, nil
}
