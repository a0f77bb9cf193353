package changelog

import "fmt"

// BaseKind tags which fallback produced a base reference.
type BaseKind int

const (
	ExplicitFrom BaseKind = iota + 1
	LatestTag
	FirstCommit
)

// String returns the base kind name.
func (k BaseKind) String() string {
	switch k {
	case ExplicitFrom:
		return "explicit"
	case LatestTag:
		return "latest-tag"
	case FirstCommit:
		return "first-commit"
	default:
		return fmt.Sprintf("BaseKind(%d)", int(k))
	}
}

// BaseReference is the reference a comparison is measured from, together
// with the path that selected it.
type BaseReference struct {
	Kind BaseKind
	Ref  string
}

func (b BaseReference) String() string {
	return fmt.Sprintf("%s(%s)", b.Kind, b.Ref)
}

// TagSupplier returns the most recent tag, or ok=false when none exists.
type TagSupplier func() (tag string, ok bool, err error)

// CommitSupplier returns the hash of the repository's first commit.
type CommitSupplier func() (string, error)

// Resolve picks the base reference for a comparison. An explicit from always
// wins. Otherwise current and target must be the same branch (anything else
// is ErrBranchesDiffer), and the latest tag is used, falling back to the
// first commit. Each supplier is called at most once, and only when needed.
func Resolve(current, target, explicitFrom string, latestTag TagSupplier, firstCommit CommitSupplier) (BaseReference, error) {
	if explicitFrom != "" {
		return BaseReference{Kind: ExplicitFrom, Ref: explicitFrom}, nil
	}

	if current != target {
		return BaseReference{}, ErrBranchesDiffer
	}

	tag, ok, err := latestTag()
	if err != nil {
		return BaseReference{}, fmt.Errorf("looking up latest tag: %w", err)
	}
	if ok && tag != "" {
		return BaseReference{Kind: LatestTag, Ref: tag}, nil
	}

	hash, err := firstCommit()
	if err != nil {
		return BaseReference{}, fmt.Errorf("looking up first commit: %w", err)
	}
	if hash == "" {
		return BaseReference{}, ErrNoCommitsFound
	}
	return BaseReference{Kind: FirstCommit, Ref: hash}, nil
}

// RunContext is the per-run state needed to decide the comparison range. It
// is resolved once at the start of a run and passed along explicitly.
type RunContext struct {
	CurrentBranch string
	TargetBranch  string
	ExplicitFrom  string
}

// Range is a history range: commits reachable from To but not from From.
// An empty From means the whole history of To. Base is nil when the range
// compares two distinct branches.
type Range struct {
	From string
	To   string
	Base *BaseReference
}

// Range decides what to compare. Distinct branches compare current against
// target directly; otherwise the base comes from Resolve and the range ends
// at the target. A first-commit base covers everything since the project
// started, so the first commit itself is part of the range.
func (rc RunContext) Range(latestTag TagSupplier, firstCommit CommitSupplier) (Range, error) {
	if rc.ExplicitFrom == "" && rc.CurrentBranch != rc.TargetBranch {
		return Range{From: rc.TargetBranch, To: rc.CurrentBranch}, nil
	}

	base, err := Resolve(rc.CurrentBranch, rc.TargetBranch, rc.ExplicitFrom, latestTag, firstCommit)
	if err != nil {
		return Range{}, err
	}
	from := base.Ref
	if base.Kind == FirstCommit {
		from = ""
	}
	return Range{From: from, To: rc.TargetBranch, Base: &base}, nil
}
