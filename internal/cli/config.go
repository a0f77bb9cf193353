package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/avdw/git-changelog/internal/config"
	clierrors "github.com/avdw/git-changelog/internal/errors"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize git-changelog configuration",
		Long: `Inspect and initialize git-changelog configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags (--locale, --catalog, --plain, --debug)
  2. Environment variables (GIT_CHANGELOG_*, '__' separates nested keys)
  3. Project config (<repo>/.git-changelog.yml, or .git-changelog.json)
  4. User config (~/.config/git-changelog/config.yml)
  5. Built-in defaults`,
		Example: `  # Show the effective configuration
  git-changelog config show

  # List the configuration files consulted
  git-changelog config path

  # Write a commented config to the repository root
  git-changelog config init`,
	}
	cmd.GroupID = GroupSetup

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigPathCmd(opts))
	cmd.AddCommand(newConfigInitCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.close()

			data, err := s.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the configuration files consulted, lowest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _, _ := projectDir(opts.repository)

			files := config.Files(dir)
			if opts.configPath != "" {
				files = explicitConfigFiles(files, opts.configPath)
			}

			green := color.New(color.FgGreen).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()
			out := cmd.OutOrStdout()
			for _, f := range files {
				status := dim("not found")
				if f.Exists {
					status = green("found")
				}
				fmt.Fprintf(out, "%-8s %s (%s)\n", f.Source, f.Path, status)
			}
			return nil
		},
	}
}

func newConfigInitCmd(opts *options) *cobra.Command {
	var user, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Long: `Write a commented default configuration file to the repository root
(.git-changelog.yml), or to the user config directory with --user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initTarget(opts, user)
			if err != nil {
				return err
			}
			if err := config.WriteDefaultConfig(path, force); err != nil {
				return clierrors.Annotate(err, clierrors.Configuration, "writing config",
					"Use --force to overwrite the existing file")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func initTarget(opts *options, user bool) (string, error) {
	if user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", clierrors.Annotate(err, clierrors.Configuration, "locating user config directory")
		}
		return path, nil
	}
	dir, _, _ := projectDir(opts.repository)
	return config.ProjectConfigPath(dir), nil
}

// explicitConfigFiles replaces the project entries with the --config file.
func explicitConfigFiles(files []config.ConfigFile, path string) []config.ConfigFile {
	var out []config.ConfigFile
	for _, f := range files {
		if f.Source != config.SourceProject {
			out = append(out, f)
		}
	}
	_, err := os.Stat(path)
	return append(out, config.ConfigFile{Source: config.SourceProject, Path: path, Exists: err == nil})
}
