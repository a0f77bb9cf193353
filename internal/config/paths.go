package config

import (
	"os"
	"path/filepath"
)

const (
	appName         = "git-changelog"
	projectYAMLName = ".git-changelog.yml"
	projectJSONName = ".git-changelog.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/git-changelog/config.yml
// - macOS: ~/Library/Application Support/git-changelog/config.yml
// - Windows: %APPDATA%\git-changelog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level YAML config in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, projectYAMLName)
}

// ProjectJSONConfigPath returns the path to the project-level JSON config in dir.
func ProjectJSONConfigPath(dir string) string {
	return filepath.Join(dir, projectJSONName)
}

// ConfigFile describes one configuration file consulted by Load.
type ConfigFile struct {
	Source ConfigSource
	Path   string
	Exists bool
}

// Files lists the configuration files Load consults for projectDir, lowest
// priority first.
func Files(projectDir string) []ConfigFile {
	var files []ConfigFile
	if userPath, err := UserConfigPath(); err == nil {
		files = append(files, ConfigFile{Source: SourceUser, Path: userPath, Exists: fileExists(userPath)})
	}
	for _, path := range []string{ProjectConfigPath(projectDir), ProjectJSONConfigPath(projectDir)} {
		files = append(files, ConfigFile{Source: SourceProject, Path: path, Exists: fileExists(path)})
	}
	return files
}
