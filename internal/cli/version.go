package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/avdw/git-changelog/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for git-changelog",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if build.IsDevBuild() {
				fmt.Fprintf(out, "git-changelog %s (development build)\n", build.Version)
			} else {
				fmt.Fprintf(out, "git-changelog %s\n", build.Version)
			}
			fmt.Fprintf(out, "commit: %s\n", build.Commit)
			fmt.Fprintf(out, "built: %s\n", build.BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
		GroupID: GroupSetup,
	}
}
