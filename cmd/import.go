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
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/internal/ioimport"
	"github.com/revatlas/revatlas/internal/iosparql"
	"github.com/revatlas/revatlas/internal/iostore"
	"github.com/revatlas/revatlas/pkg/db"
	"github.com/revatlas/revatlas/pkg/errcode"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var flags importFlags

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from Wikidata",
		Long: `Import revolutions, rebellions and coups from the Wikidata
SPARQL service.

This command:
  1. Connects to the database using configuration settings
  2. Requests events page by page, pausing between pages
  3. Retries rate-limited requests, honoring Retry-After
  4. Updates events already stored (matched by Wikidata QID, or by
     name and start year) and adds new ones
  5. Commits every page, so an interrupted run keeps finished pages

Press Ctrl-C to stop after the current page.

Examples:
  revatlas import
  revatlas import --page-size 500 --min-year 1950
  revatlas import -e http://localhost:9999/sparql --page-delay 0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Update(flags.options(cmd))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := runImport(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.bind(importCmd)
	return importCmd
}

func runImport(ctx context.Context) error {
	op, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	if err = ensureSchema(ctx, op); err != nil {
		return err
	}

	im := ioimport.New(cfg, iostore.New(op), iosparql.New(cfg.Import))
	gn.Info("Importing events from <em>%s</em>...", cfg.Import.Endpoint)

	res, err := im.ImportAll(ctx)
	if err != nil {
		return err
	}
	if res.Err != nil {
		// Finished pages are committed, the run is reported but the
		// command succeeds.
		gn.PrintErrorMessage(res.Err)
	}
	return nil
}

func ensureSchema(ctx context.Context, op db.Operator) error {
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if hasTables {
		return nil
	}
	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg: `<err>Database appears to be empty.</err>
   Run <em>'revatlas create'</em> first to initialize the schema.`,
		Err: errors.New("events table does not exist"),
	}
}
