/*
Copyright © 2026 The revatlas Authors

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
	"context"
	"fmt"
	"time"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/internal/iodb"
	"github.com/revatlas/revatlas/internal/iofs"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/db"
	"github.com/spf13/cobra"
)

// importFlags are shared by the import and serve commands.
type importFlags struct {
	endpoint  string
	pageSize  int
	pageDelay time.Duration
	minYear   int
}

func (f *importFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.endpoint, "endpoint", "e", "",
		"SPARQL endpoint URL")
	cmd.Flags().IntVarP(&f.pageSize, "page-size", "p", 0,
		"bindings requested per page")
	cmd.Flags().DurationVar(&f.pageDelay, "page-delay", 0,
		"pause between pages, 0 disables it")
	cmd.Flags().IntVarP(&f.minYear, "min-year", "y", 0,
		"earliest start year of events")
}

// options returns config options for flags set on the command line.
func (f *importFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("endpoint") {
		res = append(res, config.OptImportEndpoint(f.endpoint))
	}
	if cmd.Flags().Changed("page-size") {
		res = append(res, config.OptImportPageSize(f.pageSize))
	}
	if cmd.Flags().Changed("page-delay") {
		res = append(res, config.OptImportPageDelay(f.pageDelay))
	}
	if cmd.Flags().Changed("min-year") {
		res = append(res, config.OptMinYear(f.minYear))
	}
	return res
}

// connect opens the configured database and reports where it is.
func connect(ctx context.Context, cfg *config.Config) (db.Operator, error) {
	if err := iofs.ResolveDBPath(cfg.HomeDir, &cfg.Database); err != nil {
		return nil, err
	}

	op := iodb.NewOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	gn.Info("Connected to database: <em>%s</em>", dbLabel(&cfg.Database))
	return op, nil
}

func dbLabel(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return "sqlite:" + cfg.Path
	}
	return fmt.Sprintf("%s@%s:%d/%s",
		cfg.User, cfg.Host, cfg.Port, cfg.Database)
}
