// Package git is the version-control collaborator of git-changelog. It answers
// the history queries the changelog pipeline needs (current branch, latest tag,
// first commit, commits in a range) and can check out a reference. All
// operations use the go-git library directly; no git binary is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/avdw/git-changelog/internal/changelog"
)

var (
	// ErrNotRepository is returned by Open when no repository contains the path.
	ErrNotRepository = errors.New("not a git repository")
	// ErrUnknownRevision is returned when a branch, tag or hash cannot be resolved.
	ErrUnknownRevision = errors.New("unknown revision")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository wraps a go-git repository with the queries used to build a changelog.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up the directory tree
// to find the repository root. If path is empty, the current working
// directory is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	r := &Repository{repo: repo, root: path}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}

	logDebug("[git] repository opened at %s", r.root)
	return r, nil
}

// Root returns the worktree root of the repository.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the short name of the checked out branch. A detached
// HEAD yields "HEAD". In a repository without commits the unborn branch HEAD
// points to is returned.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	var branch string
	switch {
	case head.Type() == plumbing.SymbolicReference && head.Target().IsBranch():
		branch = head.Target().Short()
	default:
		branch = plumbing.HEAD.String()
	}

	logDebug("[git] CurrentBranch: %s", branch)
	return branch, nil
}

// LatestTag returns the most recent tag reachable from HEAD.
func (r *Repository) LatestTag() (string, bool, error) {
	return r.LatestTagFrom(plumbing.HEAD.String())
}

// LatestTagFrom returns the tag on the most recent commit reachable from rev,
// peeling annotated tags to their commit. When one commit carries several
// tags the greatest name wins. The boolean is false when no tag is reachable.
func (r *Repository) LatestTagFrom(rev string) (string, bool, error) {
	tagged, err := r.tagsByCommit()
	if err != nil {
		return "", false, err
	}
	if len(tagged) == 0 {
		logDebug("[git] LatestTagFrom %s: repository has no tags", rev)
		return "", false, nil
	}

	start, empty, err := r.resolve(rev)
	if err != nil || empty {
		return "", false, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", false, fmt.Errorf("walking history from %s: %w", rev, err)
	}
	defer iter.Close()

	var tag string
	err = iter.ForEach(func(c *object.Commit) error {
		names, ok := tagged[c.Hash]
		if !ok {
			return nil
		}
		sort.Strings(names)
		tag = names[len(names)-1]
		return storer.ErrStop
	})
	if err != nil {
		return "", false, fmt.Errorf("walking history from %s: %w", rev, err)
	}

	logDebug("[git] LatestTagFrom %s: %q", rev, tag)
	return tag, tag != "", nil
}

// tagsByCommit maps each tagged commit to the names of its tags.
func (r *Repository) tagsByCommit() (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if obj, err := r.repo.TagObject(hash); err == nil {
			commit, err := obj.Commit()
			if err != nil {
				// Tags of trees or blobs never name a release.
				return nil
			}
			hash = commit.Hash
		}
		tagged[hash] = append(tagged[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// FirstCommit returns the hash of the root commit reachable from HEAD, or an
// empty string when the repository has no commits.
func (r *Repository) FirstCommit() (string, error) {
	return r.FirstCommitFrom(plumbing.HEAD.String())
}

// FirstCommitFrom returns the oldest root commit reachable from rev.
func (r *Repository) FirstCommitFrom(rev string) (string, error) {
	start, empty, err := r.resolve(rev)
	if err != nil {
		return "", err
	}
	if empty {
		logDebug("[git] FirstCommitFrom %s: repository has no commits", rev)
		return "", nil
	}

	iter, err := r.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", rev, err)
	}
	defer iter.Close()

	var root plumbing.Hash
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() == 0 {
			root = c.Hash
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", rev, err)
	}

	logDebug("[git] FirstCommitFrom %s: %s", rev, root)
	return root.String(), nil
}

// ListCommits returns the commits reachable from to but not from from, newest
// first. An empty from lists the whole history of to. Each commit carries the
// hash, short, author, email, date and subject fields.
func (r *Repository) ListCommits(ctx context.Context, from, to string) ([]changelog.Commit, error) {
	end, empty, err := r.resolve(to)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		start, _, err := r.resolve(from)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, start, func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		}); err != nil {
			return nil, err
		}
	}

	var commits []changelog.Commit
	err = r.walk(ctx, end, func(c *object.Commit) error {
		if !exclude[c.Hash] {
			commits = append(commits, toRecord(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logDebug("[git] ListCommits %s..%s: %d commits", from, to, len(commits))
	return commits, nil
}

func (r *Repository) walk(ctx context.Context, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("walking history from %s: %w", from, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
	if err != nil {
		return fmt.Errorf("walking history from %s: %w", from, err)
	}
	return nil
}

// toRecord converts a commit into the record the changelog pipeline consumes.
func toRecord(c *object.Commit) changelog.Commit {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	hash := c.Hash.String()
	return changelog.NewCommit(strings.TrimSpace(subject), map[string]any{
		"hash":   hash,
		"short":  hash[:7],
		"author": c.Author.Name,
		"email":  c.Author.Email,
		"date":   c.Author.When.Format(time.RFC3339),
	})
}

// Checkout switches the worktree to ref. Branch names check out the branch;
// anything else detaches HEAD at the resolved commit. Untracked files are kept.
func (r *Repository) Checkout(ref string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	opts := &git.CheckoutOptions{Keep: true}
	branchRef := plumbing.NewBranchReferenceName(ref)
	if _, err := r.repo.Reference(branchRef, false); err == nil {
		opts.Branch = branchRef
	} else {
		hash, empty, err := r.resolve(ref)
		if err != nil {
			return err
		}
		if empty {
			return fmt.Errorf("checking out '%s': %w", ref, changelog.ErrNoCommitsFound)
		}
		opts.Hash = hash
	}

	if err := worktree.Checkout(opts); err != nil {
		return fmt.Errorf("checking out '%s': %w", ref, err)
	}

	logDebug("[git] Checkout: %s", ref)
	return nil
}

// resolve turns a revision into a commit hash. The boolean reports an empty
// repository, in which no revision can resolve.
func (r *Repository) resolve(rev string) (plumbing.Hash, bool, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err == nil {
		return *hash, false, nil
	}

	if _, headErr := r.repo.Head(); errors.Is(headErr, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, true, nil
	}
	return plumbing.ZeroHash, false, fmt.Errorf("resolving revision '%s': %w (%w)", rev, ErrUnknownRevision, err)
}
