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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/internal/ioimport"
	"github.com/revatlas/revatlas/internal/iosparql"
	"github.com/revatlas/revatlas/internal/iostore"
	"github.com/revatlas/revatlas/internal/ioweb"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var (
		flags         importFlags
		port          int
		schedule      string
		importOnStart bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve events over HTTP",
		Long: `Serve stored events as JSON.

Endpoints:
  GET /api/events?countryIso=FR      events by ISO code (alpha-2 or alpha-3)
  GET /api/events?country=France     events by country name
  GET /api/events/{id}               one event
  GET /api/health                    status and number of events

Events are ordered by start date, newest first. At least one of
countryIso and country is required.

Imports can run in the background: --import-on-start runs one when
the server starts, --schedule runs them by a cron expression. Failed
imports are logged and the server keeps serving stored events.

Examples:
  revatlas serve
  revatlas serve --port 9000
  revatlas serve --schedule "@daily" --import-on-start
  revatlas serve -s "0 3 * * 1"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.options(cmd)
			if cmd.Flags().Changed("port") {
				opts = append(opts, config.OptServerPort(port))
			}
			if cmd.Flags().Changed("schedule") {
				opts = append(opts, config.OptImportSchedule(schedule))
			}
			if cmd.Flags().Changed("import-on-start") {
				opts = append(opts, config.OptImportOnStartup(importOnStart))
			}
			cfg.Update(opts)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := runServe(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.bind(serveCmd)
	serveCmd.Flags().IntVar(&port, "port", 0, "HTTP port")
	serveCmd.Flags().StringVarP(&schedule, "schedule", "s", "",
		`cron expression for background imports, "off" disables it`)
	serveCmd.Flags().BoolVarP(&importOnStart, "import-on-start", "i", false,
		"run an import when the server starts")

	return serveCmd
}

func runServe(ctx context.Context) error {
	op, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	if err = ensureSchema(ctx, op); err != nil {
		return err
	}

	st := iostore.New(op)
	im := ioimport.New(cfg, st, iosparql.New(cfg.Import))
	sched, err := ioimport.NewScheduler(im, cfg.Import.Schedule)
	if err != nil {
		return err
	}

	gn.Info("Serving events on port <em>%d</em>", cfg.Server.Port)
	if cfg.Import.Schedule != "" {
		gn.Info("Importing events on schedule <em>%s</em>", cfg.Import.Schedule)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ioweb.New(cfg, st).Run(gctx)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if cfg.Import.OnStartup {
		g.Go(func() error {
			sched.RunOnce(gctx)
			return nil
		})
	}

	err = g.Wait()
	slog.Info("Server stopped", "error", err)
	return err
}
