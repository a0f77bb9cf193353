// Package cli implements the git-changelog command line: the changelog
// command itself plus the log, config and version subcommands.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clierrors "github.com/avdw/git-changelog/internal/errors"
	"github.com/avdw/git-changelog/internal/progress"
)

// Command groups
const (
	GroupChangelog = "changelog"
	GroupSetup     = "setup"
)

// options holds the flag values of one command tree.
type options struct {
	repository  string
	configPath  string
	locale      string
	catalogPath string
	plain       bool
	debug       bool

	input    string
	previous string
	checkout bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "git-changelog [to] [from]",
		Short: "Generate a changelog and the next version from git history",
		Long: `git-changelog groups the commits between two references by the first word of
their subject and computes the next semantic version.

  Add...       -> Added        (minor)
  Change...    -> Changed      (major)
  Deprecate... -> Deprecated   (minor)
  Remove...    -> Removed      (major)
  Fix...       -> Fixed        (patch)
  Secure...    -> Security     (patch, update recommended)
  Maintain...  -> Ignored      (patch)

<to> defaults to the configured target branch (master). Without <from> the
changelog starts at the latest tag reachable from <to>, or at the first commit.
When the current branch differs from <to>, the changelog lists the commits of
the current branch that <to> does not have.`,
		Example: `  # Changelog of master since its latest tag
  git-changelog

  # Changes between two references
  git-changelog release/2.x v2.3.0

  # Another repository, without colors
  git-changelog --repository ../service --plain

  # Offline: render commits exported earlier
  git-changelog log > commits.jsonl
  git-changelog --input commits.jsonl --previous 1.4.2`,
		Args:          validateRootArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(cmd, opts, args)
		},
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.repository, "repository", "r", "", "Path inside the git repository (default: current directory)")
	pf.StringVar(&opts.configPath, "config", "", "Config file used instead of .git-changelog.yml")
	pf.StringVar(&opts.locale, "locale", "", "Message catalog locale (en, de)")
	pf.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog overriding individual messages")
	pf.BoolVar(&opts.plain, "plain", false, "Plain text output (no colors/icons)")
	pf.BoolVar(&opts.debug, "debug", false, "Debug logging on stderr")

	f := cmd.Flags()
	f.StringVar(&opts.input, "input", "", "Read JSON Lines commits from a file ('-' for stdin) instead of git")
	f.StringVar(&opts.previous, "previous", "", "Previous version (MAJOR.MINOR.PATCH); default: latest tag")
	f.BoolVar(&opts.checkout, "checkout", false, "Check out <to> before reading history")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.New(clierrors.Argument, err.Error(), "Run '"+c.CommandPath()+" --help' for usage").WithUsage(c.UseLine())
	})

	cmd.AddCommand(newLogCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func validateRootArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 2 {
		return clierrors.TooManyArguments(len(args))
	}
	return nil
}

// Execute runs the command line and returns the process exit code. Errors are
// printed to stderr with hints.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return executeCommand(ctx, rootCmd)
}

func executeCommand(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	cliErr := toCLIError(err)
	clierrors.Fprint(cmd.ErrOrStderr(), cliErr, plainErrors(cmd, progress.DetectTerminalCapabilities(os.Stderr)))
	return ExitCode(cliErr)
}

// plainErrors reports whether errors print without colors: --plain, plain in
// the loaded configuration (a session copies it back into the flag), or a
// stderr that cannot show colors.
func plainErrors(cmd *cobra.Command, stderr progress.TerminalCapabilities) bool {
	plain, _ := cmd.PersistentFlags().GetBool("plain")
	return plain || !stderr.SupportsColor
}
