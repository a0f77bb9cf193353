package errors

import (
	"fmt"
	"strings"
)

// NotARepository creates an error for a path outside any git repository.
func NotARepository(err error) *CLIError {
	return &CLIError{
		Category: Repository,
		Message:  err.Error(),
		Hints: []string{
			"Run git-changelog inside a git working tree",
			"Or point to one with: git-changelog --repository <path>",
			"Or read commits from a file with: git-changelog --input commits.jsonl",
		},
		Err: err,
	}
}

// NoCommitsFound creates an error for a repository without any commit.
func NoCommitsFound(err error) *CLIError {
	return &CLIError{
		Category: Repository,
		Message:  "no commits found: the repository is empty",
		Hints: []string{
			"Create at least one commit before generating a changelog",
		},
		Err: err,
	}
}

// UnknownReference creates an error for a revision the repository cannot resolve.
func UnknownReference(err error) *CLIError {
	return &CLIError{
		Category: Repository,
		Message:  err.Error(),
		Hints: []string{
			"Check the branch, tag or commit name passed as <to> or <from>",
			"Set the default branch with target_branch in .git-changelog.yml",
		},
		Err: err,
	}
}

// AmbiguousVersion creates an error for a previous version that is not MAJOR.MINOR.PATCH.
func AmbiguousVersion(err error, tagPrefix string) *CLIError {
	return &CLIError{
		Category: Input,
		Message:  err.Error(),
		Hints: []string{
			fmt.Sprintf("Tag releases as %s<major>.<minor>.<patch>, e.g. %s1.4.0", tagPrefix, tagPrefix),
			"Set tag_prefix in .git-changelog.yml if your tags use another prefix",
			"Or pass the previous version explicitly: git-changelog --previous 1.4.0",
		},
		Err: err,
	}
}

// MalformedCommitInput creates an error for unreadable JSON Lines input.
func MalformedCommitInput(err error) *CLIError {
	return &CLIError{
		Category: Input,
		Message:  fmt.Sprintf("malformed commit input: %v", err),
		Hints: []string{
			`Each line must be a JSON object with a "subject" string, e.g. {"subject":"Add login"}`,
			"Generate valid input with: git-changelog log > commits.jsonl",
		},
		Err: err,
	}
}

// UnknownLocale creates an error for a locale without an embedded catalog.
func UnknownLocale(locale string, available []string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("unknown locale %q", locale),
		Hints: []string{
			fmt.Sprintf("Use one of: %s", strings.Join(available, ", ")),
			"Or provide your own messages with catalog_path",
		},
		Err: err,
	}
}

// InvalidConfig creates an error for configuration that failed to load or validate.
func InvalidConfig(err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Hints: []string{
			"Show the files consulted with: git-changelog config path",
			"Check GIT_CHANGELOG_* environment variables",
		},
		Err: err,
	}
}

// TooManyArguments creates an error for surplus positional arguments.
func TooManyArguments(got int) *CLIError {
	return New(Argument,
		fmt.Sprintf("accepts at most 2 arguments, received %d", got),
		"Pass the target reference first and the starting reference second",
		"Example: git-changelog master v1.2.0",
	).WithUsage("git-changelog [to] [from]")
}
