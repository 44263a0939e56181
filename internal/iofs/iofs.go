// Package iofs prepares directories and files revatlas keeps in the
// user's home directory.
package iofs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/revatlas/revatlas/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// EnsureDirs creates the config, data and log directories.
func EnsureDirs(homeDir string) error {
	for _, dir := range []string{
		config.ConfigDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	} {
		if err := mkdir(dir); err != nil {
			return err
		}
	}
	return nil
}

// EnsureConfigFile writes the embedded default config.yaml to the
// config directory unless the file already exists.
func EnsureConfigFile(homeDir string) error {
	path := config.ConfigFilePath(homeDir)
	if exists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(ConfigYAML), filePerm); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}

// ResolveDBPath places a relative SQLite path inside the data directory
// and makes sure the directory of the file exists. Postgres settings
// are left alone.
func ResolveDBPath(homeDir string, cfg *config.DatabaseConfig) error {
	if cfg.Driver != "sqlite" || cfg.Path == "" {
		return nil
	}
	if !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(config.DataDir(homeDir), cfg.Path)
	}
	return mkdir(filepath.Dir(cfg.Path))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mkdir(dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return CreateDirError(dir, err)
	}
	return nil
}
