// Package testutil provides test helpers for git-changelog tests: throwaway
// git repositories built with go-git, so no git binary is required.
package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the author time of the first commit; each further commit or
// annotated tag is one minute later.
var Epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// GitRepo is a throwaway repository in a test temp directory.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	tick int
}

// NewGitRepo initializes an empty repository. Its unborn branch is master.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &GitRepo{t: t, Dir: dir, Repo: repo}
}

// Signature returns the next test signature.
func (g *GitRepo) Signature() *object.Signature {
	g.tick++
	return &object.Signature{
		Name:  "Test",
		Email: "test@test.com",
		When:  Epoch.Add(time.Duration(g.tick) * time.Minute),
	}
}

// Commit records an empty commit on the checked out branch.
func (g *GitRepo) Commit(message string) plumbing.Hash {
	g.t.Helper()
	hash, err := g.worktree().Commit(message, &git.CommitOptions{
		Author:            g.Signature(),
		AllowEmptyCommits: true,
	})
	require.NoError(g.t, err)
	return hash
}

// Commits records one commit per message, in order.
func (g *GitRepo) Commits(messages ...string) []plumbing.Hash {
	g.t.Helper()
	hashes := make([]plumbing.Hash, 0, len(messages))
	for _, m := range messages {
		hashes = append(hashes, g.Commit(m))
	}
	return hashes
}

// Tag creates a lightweight or annotated tag on hash.
func (g *GitRepo) Tag(name string, hash plumbing.Hash, annotated bool) {
	g.t.Helper()
	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{Tagger: g.Signature(), Message: "release " + name}
	}
	_, err := g.Repo.CreateTag(name, hash, opts)
	require.NoError(g.t, err)
}

// CreateBranch creates a branch at HEAD and checks it out.
func (g *GitRepo) CreateBranch(name string) {
	g.t.Helper()
	head, err := g.Repo.Head()
	require.NoError(g.t, err)
	require.NoError(g.t, g.worktree().Checkout(&git.CheckoutOptions{
		Hash:   head.Hash(),
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	}))
}

// CheckoutBranch switches to an existing branch.
func (g *GitRepo) CheckoutBranch(name string) {
	g.t.Helper()
	require.NoError(g.t, g.worktree().Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Keep:   true,
	}))
}

func (g *GitRepo) worktree() *git.Worktree {
	g.t.Helper()
	wt, err := g.Repo.Worktree()
	require.NoError(g.t, err)
	return wt
}
