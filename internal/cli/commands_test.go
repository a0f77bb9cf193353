package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdw/git-changelog/internal/changelog"
	"github.com/avdw/git-changelog/internal/testutil"
)

func TestRootCmd_Structure(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "git-changelog", cmd.Name())
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, name := range []string{"repository", "config", "locale", "catalog", "plain", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %s", name)
	}
	for _, name := range []string{"input", "previous", "checkout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "local flag %s", name)
	}
	assert.Equal(t, "r", cmd.PersistentFlags().Lookup("repository").Shorthand)

	groups := map[string]string{
		"log":     GroupChangelog,
		"config":  GroupSetup,
		"version": GroupSetup,
	}
	for name, group := range groups {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
		assert.Equal(t, group, sub.GroupID, "group of %s", name)
	}
}

func TestRootCmd_FreshTrees(t *testing.T) {
	a := newRootCmd()
	b := newRootCmd()

	require.NoError(t, a.PersistentFlags().Set("locale", "de"))
	assert.Equal(t, "", b.PersistentFlags().Lookup("locale").Value.String())
}

func TestLogCmd(t *testing.T) {
	g := testutil.NewGitRepo(t)
	base := g.Commit("Add base")
	g.Tag("v1.0.0", base, true)
	hashes := g.Commits("Fix crash", "Add export")

	res := run(t, "", "-r", g.Dir, "log")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	commits, err := changelog.ParseCommits(strings.NewReader(res.stdout))
	require.NoError(t, err)
	require.Len(t, commits, 2)

	// Newest first.
	assert.Equal(t, "Add export", commits[0].Subject)
	assert.Equal(t, "Fix crash", commits[1].Subject)
	assert.Equal(t, hashes[1].String(), commits[0].Fields["hash"])
	assert.Equal(t, short(hashes[0]), commits[1].Fields["short"])
	assert.NotEmpty(t, commits[0].Fields["date"])
}

func TestLogCmd_RoundTrip(t *testing.T) {
	g := testutil.NewGitRepo(t)
	base := g.Commit("Add base")
	g.Tag("v0.9.0", base, false)
	g.Commits("Deprecate v1 endpoints", "Secure token storage")

	direct := run(t, "", "-r", g.Dir)
	require.Equal(t, ExitSuccess, direct.code, direct.stderr)

	exported := run(t, "", "-r", g.Dir, "log")
	require.Equal(t, ExitSuccess, exported.code, exported.stderr)

	offline := run(t, exported.stdout, "-r", t.TempDir(), "--input", "-", "--previous", "0.9.0")
	require.Equal(t, ExitSuccess, offline.code, offline.stderr)

	assert.Equal(t, direct.stdout, offline.stdout)
	assert.True(t, strings.HasPrefix(offline.stdout, "## v0.10.0 (Feature)\n"), "output:\n%s", offline.stdout)
}

func TestLogCmd_Errors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantCode int
	}{
		"outside repository": {
			args:     []string{"log"},
			wantCode: ExitRepository,
		},
		"input flag is not a log flag": {
			args:     []string{"log", "--input", "-"},
			wantCode: ExitInvalidArguments,
		},
		"too many arguments": {
			args:     []string{"log", "a", "b", "c"},
			wantCode: ExitInvalidArguments,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := run(t, "", append([]string{"-r", t.TempDir()}, tt.args...)...)
			assert.Equal(t, tt.wantCode, res.code)
			assert.Empty(t, res.stdout)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

func TestConfigShowCmd(t *testing.T) {
	g := testutil.NewGitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(g.Dir, ".git-changelog.yml"), []byte("target_branch: main\nlabels:\n  patch: Bugfix\n"), 0o644))

	tests := map[string]struct {
		args []string
		env  map[string]string
		want []string
	}{
		"project config": {
			want: []string{"target_branch: main", "patch: Bugfix", "locale: en", "major: Major"},
		},
		"flag overrides": {
			args: []string{"--locale", "de", "--plain"},
			want: []string{"locale: de", "plain: true"},
		},
		"environment": {
			env:  map[string]string{"GIT_CHANGELOG_LABELS__MINOR": "Enhancement"},
			want: []string{"minor: Enhancement"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"-r", g.Dir, "config", "show"}, tt.args...)
			res := run(t, "", args...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			for _, want := range tt.want {
				assert.Contains(t, res.stdout, want)
			}
		})
	}
}

func TestConfigPathCmd(t *testing.T) {
	g := testutil.NewGitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(g.Dir, ".git-changelog.yml"), []byte("locale: de\n"), 0o644))

	t.Run("project files", func(t *testing.T) {
		res := run(t, "", "-r", g.Dir, "config", "path")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "user "))
		assert.Contains(t, lines[0], "(not found)")
		assert.Equal(t, "project  "+filepath.Join(g.Dir, ".git-changelog.yml")+" (found)", lines[1])
		assert.Equal(t, "project  "+filepath.Join(g.Dir, ".git-changelog.json")+" (not found)", lines[2])
	})

	t.Run("explicit config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "changelog.yml")
		res := run(t, "", "-r", g.Dir, "--config", path, "config", "path")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "project  "+path+" (not found)", lines[1])
	})
}

func TestConfigInitCmd(t *testing.T) {
	g := testutil.NewGitRepo(t)
	target := filepath.Join(g.Dir, ".git-changelog.yml")

	res := run(t, "", "-r", g.Dir, "config", "init")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Wrote "+target+"\n", res.stdout)
	assert.FileExists(t, target)

	again := run(t, "", "-r", g.Dir, "config", "init")
	assert.Equal(t, ExitInvalidArguments, again.code)
	assert.Contains(t, again.stderr, "--force")

	forced := run(t, "", "-r", g.Dir, "config", "init", "--force")
	assert.Equal(t, ExitSuccess, forced.code, forced.stderr)

	// The written defaults load and produce the stock output.
	g.Commits("Add base", "Fix bug")
	out := run(t, "", "-r", g.Dir)
	require.Equal(t, ExitSuccess, out.code, out.stderr)
	assert.True(t, strings.HasPrefix(out.stdout, "## v0.1.0 (Feature)\n"), "output:\n%s", out.stdout)
}

func TestConfigInitCmd_User(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on Linux")
	}
	res := run(t, "", "-r", t.TempDir(), "config", "init", "--user")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	path := strings.TrimSpace(strings.TrimPrefix(res.stdout, "Wrote "))
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "git-changelog", "config.yml"), path)
	assert.FileExists(t, path)
}

func TestVersionCmd(t *testing.T) {
	for _, name := range []string{"version", "v"} {
		t.Run(name, func(t *testing.T) {
			res := run(t, "", name)
			require.Equal(t, ExitSuccess, res.code, res.stderr)

			assert.True(t, strings.HasPrefix(res.stdout, "git-changelog dev (development build)\n"), "output:\n%s", res.stdout)
			assert.Contains(t, res.stdout, "go: "+runtime.Version())
			assert.Contains(t, res.stdout, "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
		})
	}
}
