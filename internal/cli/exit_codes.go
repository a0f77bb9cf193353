package cli

import (
	"context"
	"errors"

	"github.com/avdw/git-changelog/internal/catalog"
	"github.com/avdw/git-changelog/internal/changelog"
	"github.com/avdw/git-changelog/internal/config"
	clierrors "github.com/avdw/git-changelog/internal/errors"
	"github.com/avdw/git-changelog/internal/git"
)

// Exit codes for the git-changelog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitRepository indicates the repository is missing, empty, or lacks a reference
	ExitRepository = 4

	// ExitInterrupted indicates the command was cancelled
	ExitInterrupted = 5

	// ExitMalformedInput indicates unreadable commit input or version text
	ExitMalformedInput = 6
)

// ExitCode returns the exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	cliErr := clierrors.As(err)
	if cliErr == nil {
		return ExitFailure
	}
	switch cliErr.Category {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Repository:
		return ExitRepository
	case clierrors.Input:
		return ExitMalformedInput
	default:
		return ExitFailure
	}
}

// toCLIError maps errors of the lower layers to a categorized CLIError.
// Errors that are already categorized pass through unchanged. Version text
// errors are categorized where the tag prefix is known (previousVersion).
func toCLIError(err error) *clierrors.CLIError {
	if cliErr := clierrors.As(err); cliErr != nil {
		return cliErr
	}

	var (
		validationErr *config.ValidationError
		localeErr     *catalog.UnknownLocaleError
		missingErr    *catalog.MissingKeyError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return clierrors.Annotate(err, clierrors.Runtime, "interrupted")
	case errors.Is(err, git.ErrNotRepository):
		return clierrors.NotARepository(err)
	case errors.Is(err, changelog.ErrNoCommitsFound):
		return clierrors.NoCommitsFound(err)
	case errors.Is(err, git.ErrUnknownRevision):
		return clierrors.UnknownReference(err)
	case changelog.IsParseError(err):
		return clierrors.MalformedCommitInput(err)
	case errors.As(err, &localeErr):
		return clierrors.UnknownLocale(localeErr.Locale, localeErr.Available, err)
	case errors.As(err, &validationErr), errors.As(err, &missingErr):
		return clierrors.InvalidConfig(err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}
