/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/internal/iofs"
	"github.com/revatlas/revatlas/internal/iologger"
	revatlas "github.com/revatlas/revatlas/pkg"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

// getRootCmd builds the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			revatlas.Version, revatlas.Build),
		Use:   "revatlas",
		Short: "RevAtlas imports and serves a catalog of revolutions",
		Long: `RevAtlas keeps a catalog of revolutions, uprisings and coups.

Events are imported from the Wikidata SPARQL service into PostgreSQL
or SQLite and served as JSON filtered by country.

Commands:
  - create:  create the events schema
  - migrate: update the schema after an upgrade
  - import:  import events from Wikidata once
  - serve:   run the HTTP gateway, optionally importing on a schedule

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (REVATLAS_*)
  3. Config file (~/.config/revatlas/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → REVATLAS_DATABASE_HOST).

    REVATLAS_DATABASE_DRIVER     postgres or sqlite
    REVATLAS_DATABASE_HOST       PostgreSQL host
    REVATLAS_DATABASE_PATH       SQLite file
    REVATLAS_IMPORT_PAGE_SIZE    bindings per SPARQL page
    REVATLAS_IMPORT_SCHEDULE     cron expression for serve
    REVATLAS_SERVER_PORT         HTTP port
    REVATLAS_MIN_YEAR            earliest start year
    REVATLAS_LOG_LEVEL           debug/info/warn/error`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for revatlas")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportCmd(),
		getServeCmd(),
	)

	return rootCmd
}

func bootstrap(_ *cobra.Command, _ []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Defaults until the user's settings are known.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfgViper, err := initConfig(homeDir)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)
	return nil
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}
	return &res, nil
}

// initEnvVars binds every persistent setting to a REVATLAS_ variable.
// Bindings are listed explicitly so the allowed variables are easy to
// see.
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("REVATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"database.driver",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",
		"database.path",

		"import.endpoint",
		"import.user_agent",
		"import.page_size",
		"import.page_delay",
		"import.max_attempts",
		"import.initial_backoff",
		"import.max_retry_wait",
		"import.timeout",
		"import.schedule",
		"import.on_startup",

		"server.port",
		"server.cors_origins",
		"server.rate_limit",

		"log.level",
		"log.format",
		"log.destination",

		"min_year",
	} {
		_ = v.BindEnv(key)
	}

	v.AutomaticEnv()
}
