// Package config provides hierarchical configuration management for git-changelog using koanf.
// Configuration is loaded with priority: environment variables > project config
// (<repo>/.git-changelog.yml, or .git-changelog.json) > user config
// (~/.config/git-changelog/config.yml) > defaults. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/avdw/git-changelog/internal/changelog"
)

// EnvPrefix is the prefix of environment variables read as configuration.
// A double underscore separates nested keys: GIT_CHANGELOG_LABELS__PATCH -> labels.patch.
const EnvPrefix = "GIT_CHANGELOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the git-changelog configuration
type Configuration struct {
	// TargetBranch is the branch a changelog is computed for when no "to"
	// argument is given. Can be set via GIT_CHANGELOG_TARGET_BRANCH.
	TargetBranch string `koanf:"target_branch" yaml:"target_branch" validate:"required,nospace"`
	// TagPrefix is stripped from the latest tag before it is read as the previous version.
	TagPrefix string `koanf:"tag_prefix" yaml:"tag_prefix"`
	// Locale selects the embedded message catalog.
	Locale string `koanf:"locale" yaml:"locale" validate:"required"`
	// CatalogPath points to a YAML catalog overriding messages of Locale.
	CatalogPath string `koanf:"catalog_path" yaml:"catalog_path" validate:"omitempty,file"`

	Plain bool `koanf:"plain" yaml:"plain"` // Disable colors and icons
	Debug bool `koanf:"debug" yaml:"debug"` // Enable debug logging on stderr

	// Labels names the release type of each bump level.
	Labels LabelConfig `koanf:"labels" yaml:"labels"`
}

// LabelConfig holds the release type labels.
type LabelConfig struct {
	Major string `koanf:"major" yaml:"major" validate:"required"`
	Minor string `koanf:"minor" yaml:"minor" validate:"required"`
	Patch string `koanf:"patch" yaml:"patch" validate:"required"`
}

// ReleaseLabels converts the configured labels for the changelog assembler.
func (c *Configuration) ReleaseLabels() changelog.Labels {
	return changelog.Labels{
		Major: c.Labels.Major,
		Minor: c.Labels.Minor,
		Patch: c.Labels.Patch,
	}
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the directory holding the project config (default: current directory)
	ProjectDir string
	// UserConfigPath overrides the user config path (default: UserConfigPath())
	UserConfigPath string
	// ConfigPath names an explicit config file used instead of the project
	// config. It must exist; a .json extension selects the JSON parser.
	ConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		if err := loadExplicitConfig(k, opts.ConfigPath); err != nil {
			return nil, err
		}
	} else if err := loadProjectConfig(k, opts.ProjectDir, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	userPath := customPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project-level config. YAML is preferred; a JSON
// file is used only when no YAML file exists, and ignored with a warning otherwise.
func loadProjectConfig(k *koanf.Koanf, dir string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath(dir)
	jsonPath := ProjectJSONConfigPath(dir)

	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, SourceProject); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s found alongside %s (ignored, using %s)\n", jsonPath, yamlPath, yamlPath)
		}
	case jsonExists:
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("loading project config: failed to load %s: %w", jsonPath, err)
		}
	}
	return nil
}

// loadExplicitConfig loads the file named on the command line.
func loadExplicitConfig(k *koanf.Koanf, path string) error {
	if !fileExists(path) {
		return &ValidationError{Source: path, Reason: "config file not found"}
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return nil
	}
	return loadYAMLConfig(k, path, SourceProject)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	if err := CheckSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, expands paths, and validates.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CatalogPath = expandHomePath(cfg.CatalogPath)

	if err := CheckValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: GIT_CHANGELOG_LABELS__PATCH -> labels.patch
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
