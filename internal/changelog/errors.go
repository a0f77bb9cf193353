package changelog

import (
	"errors"
	"fmt"
)

// ErrNoCommitsFound is returned when the repository has no commits at all,
// so not even a first commit can serve as the comparison base.
var ErrNoCommitsFound = errors.New("no commits found in repository")

// ErrBranchesDiffer is returned by Resolve when the current and target
// branches differ and no explicit base was given. That comparison is already
// well-defined and needs no fallback.
var ErrBranchesDiffer = errors.New("current and target branches differ; no base reference fallback applies")

// errUnreachableBump is the panic value raised when a bump is requested for
// an empty change set.
var errUnreachableBump = errors.New("unreachable bump state: no categories present")

// ParseError reports a commit input line that is not a well-formed record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: malformed commit record: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// VersionFormatError reports a previous version that is not major.minor.patch.
type VersionFormatError struct {
	Input string
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf("ambiguous version format %q (expected: X.Y.Z)", e.Input)
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsVersionFormatError returns true if the error is a VersionFormatError.
func IsVersionFormatError(err error) bool {
	var ve *VersionFormatError
	return errors.As(err, &ve)
}
