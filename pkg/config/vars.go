package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "revatlas"

	// WikidataEndpoint is the default SPARQL query service.
	WikidataEndpoint = "https://query.wikidata.org/sparql"

	// ContactURL is sent inside the User-Agent header.
	ContactURL = "https://github.com/revatlas/revatlas"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/revatlas by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir keeps local data such as the default SQLite file.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns ~/.local/share/revatlas/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/revatlas/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
