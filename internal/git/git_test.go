// Package git_test tests history queries against throwaway go-git repositories.
// Related: internal/git/git.go
// Tags: git, repository, tags, history, checkout

package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdw/git-changelog/internal/testutil"
)

func open(t *testing.T, g *testutil.GitRepo) *Repository {
	t.Helper()
	r, err := Open(g.Dir)
	require.NoError(t, err)
	return r
}

func subjects(t *testing.T, r *Repository, from, to string) []string {
	t.Helper()
	commits, err := r.ListCommits(context.Background(), from, to)
	require.NoError(t, err)
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Subject)
	}
	return out
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()
		_, err := Open(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("detects root from subdirectory", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		sub := filepath.Join(tr.Dir, "a", "b")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		r, err := Open(sub)
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(tr.Dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(r.Root())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	t.Run("unborn master", func(t *testing.T) {
		t.Parallel()
		branch, err := open(t, testutil.NewGitRepo(t)).CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
	})

	t.Run("feature branch", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		tr.CreateBranch("feature")

		branch, err := open(t, tr).CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "feature", branch)
	})

	t.Run("detached head", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		first := tr.Commit("Add base")
		tr.Commit("Fix bug")
		r := open(t, tr)
		require.NoError(t, r.Checkout(first.String()))

		branch, err := r.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "HEAD", branch)
	})
}

func TestLatestTagFrom(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	c1 := tr.Commit("Add base")
	c2 := tr.Commit("Fix bug")
	c3 := tr.Commit("Secure login")
	tr.Commit("Change API")
	tr.Tag("v1.0.0", c1, false)
	tr.Tag("v1.1.0", c3, true)
	r := open(t, tr)

	tests := map[string]struct {
		rev    string
		want   string
		wantOK bool
	}{
		"HEAD sees annotated tag":   {rev: "HEAD", want: "v1.1.0", wantOK: true},
		"branch name":               {rev: "master", want: "v1.1.0", wantOK: true},
		"older commit sees older":   {rev: c2.String(), want: "v1.0.0", wantOK: true},
		"tagged commit is its own":  {rev: c1.String(), want: "v1.0.0", wantOK: true},
		"annotated tag as revision": {rev: "v1.1.0", want: "v1.1.0", wantOK: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := r.LatestTagFrom(tt.rev)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLatestTag(t *testing.T) {
	t.Parallel()

	t.Run("no tags", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		tag, ok, err := open(t, tr).LatestTag()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, tag)
	})

	t.Run("several tags on one commit", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		head := tr.Commit("Add base")
		tr.Tag("v1.0.0", head, false)
		tr.Tag("v1.0.1", head, true)
		tag, ok, err := open(t, tr).LatestTag()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v1.0.1", tag)
	})

	t.Run("tag on unreachable commit", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		tr.CreateBranch("side")
		side := tr.Commit("Add side feature")
		tr.Tag("v9.0.0", side, false)
		tr.CheckoutBranch("master")

		_, ok, err := open(t, tr).LatestTag()
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFirstCommit(t *testing.T) {
	t.Parallel()

	t.Run("returns root", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		root := tr.Commit("Add base")
		tr.Commit("Fix bug")
		tr.Commit("Add feature")

		got, err := open(t, tr).FirstCommit()
		require.NoError(t, err)
		assert.Equal(t, root.String(), got)
	})

	t.Run("empty repository", func(t *testing.T) {
		t.Parallel()
		got, err := open(t, testutil.NewGitRepo(t)).FirstCommit()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown revision", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		_, err := open(t, tr).FirstCommitFrom("no-such-branch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resolving revision 'no-such-branch'")
	})
}

func TestListCommits(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	root := tr.Commit("Maintain repository setup")
	c1 := tr.Commit("Add login")
	tr.Tag("v1.0.0", c1, true)
	tr.Commit("Fix crash on logout\n\nLonger description of the fix.")
	tr.Commit("Secure session cookies")
	r := open(t, tr)

	tests := map[string]struct {
		from string
		to   string
		want []string
	}{
		"whole history": {
			to:   "master",
			want: []string{"Secure session cookies", "Fix crash on logout", "Add login", "Maintain repository setup"},
		},
		"since tag": {
			from: "v1.0.0",
			to:   "master",
			want: []string{"Secure session cookies", "Fix crash on logout"},
		},
		"since first commit excludes root": {
			from: root.String(),
			to:   "HEAD",
			want: []string{"Secure session cookies", "Fix crash on logout", "Add login"},
		},
		"same reference": {
			from: "master",
			to:   "master",
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, subjects(t, r, tt.from, tt.to))
		})
	}
}

func TestListCommitsFields(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	hash := tr.Commit("Add login\n\nbody")

	commits, err := open(t, tr).ListCommits(context.Background(), "", "master")
	require.NoError(t, err)
	require.Len(t, commits, 1)

	c := commits[0]
	assert.Equal(t, "Add login", c.Subject)
	assert.Equal(t, hash.String(), c.Field("hash"))
	assert.Equal(t, hash.String()[:7], c.Field("short"))
	assert.Equal(t, "Test", c.Field("author"))
	assert.Equal(t, "test@test.com", c.Field("email"))
	assert.Equal(t, "2026-01-01T12:01:00Z", c.Field("date"))
}

func TestListCommitsErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty repository yields nothing", func(t *testing.T) {
		t.Parallel()
		commits, err := open(t, testutil.NewGitRepo(t)).ListCommits(context.Background(), "", "master")
		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		_, err := open(t, tr).ListCommits(context.Background(), "", "develop")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownRevision)
		assert.Contains(t, err.Error(), "resolving revision 'develop'")
	})

	t.Run("unknown from", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		_, err := open(t, tr).ListCommits(context.Background(), "v0.0.1", "master")
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := open(t, tr).ListCommits(ctx, "", "master")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestCheckoutPreservesUntracked verifies that Checkout keeps untracked files
// in the worktree when switching references.
func TestCheckoutPreservesUntracked(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	first := tr.Commit("Add base")
	tr.Commit("Fix bug")
	tr.Tag("v1.0.0", first, true)

	untracked := filepath.Join(tr.Dir, "notes.txt")
	require.NoError(t, os.WriteFile(untracked, []byte("keep me"), 0o644))

	r := open(t, tr)
	require.NoError(t, r.Checkout("v1.0.0"))

	head, err := tr.Repo.Head()
	require.NoError(t, err)
	assert.Equal(t, first, head.Hash())

	content, err := os.ReadFile(untracked)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))

	require.NoError(t, r.Checkout("master"))
	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestCheckoutErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()
		tr := testutil.NewGitRepo(t)
		tr.Commit("Add base")
		err := open(t, tr).Checkout("nowhere")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nowhere")
	})

	t.Run("empty repository", func(t *testing.T) {
		t.Parallel()
		err := open(t, testutil.NewGitRepo(t)).Checkout("HEAD")
		require.Error(t, err)
	})
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) {
		lines = append(lines, format)
	})
	defer SetDebugLogger(nil)

	tr := testutil.NewGitRepo(t)
	tr.Commit("Add base")
	_, err := open(t, tr).CurrentBranch()
	require.NoError(t, err)

	assert.NotEmpty(t, lines)
}
