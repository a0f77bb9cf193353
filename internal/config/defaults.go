package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefaultConfig when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# git-changelog configuration
# Environment variables override these values: GIT_CHANGELOG_TARGET_BRANCH,
# GIT_CHANGELOG_LABELS__PATCH, ...

target_branch: master                 # Branch the changelog is computed for
tag_prefix: v                         # Stripped from the latest tag to read the previous version
locale: en                            # Message catalog: en | de
catalog_path: ""                      # YAML catalog overriding individual messages
plain: false                          # Disable colors and icons
debug: false                          # Debug logging on stderr

# Release type labels per version bump
labels:
  major: Major
  minor: Feature
  patch: Maintenance                  # e.g. Bugfix
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"target_branch": "master",
		"tag_prefix":    "v",
		"locale":        "en",
		"catalog_path":  "",
		"plain":         false,
		"debug":         false,
		"labels.major":  "Major",
		"labels.minor":  "Feature",
		"labels.patch":  "Maintenance",
	}
}

// WriteDefaultConfig writes the commented default template to path, creating
// parent directories. An existing file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML returns the configuration in the format of the config files.
func (c *Configuration) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
