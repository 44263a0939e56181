// Package ioimport implements lifecycle.Importer. It pages through the
// Wikidata events query and upserts every page in one transaction.
package ioimport

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/revatlas/revatlas/internal/iosparql"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/errcode"
	"github.com/revatlas/revatlas/pkg/lifecycle"
	"github.com/revatlas/revatlas/pkg/schema"
)

// Querier runs a SPARQL query and returns its bindings.
type Querier interface {
	Query(ctx context.Context, query string) ([]iosparql.Binding, error)
}

type importer struct {
	cfg     *config.Config
	store   lifecycle.EventStore
	querier Querier
}

// New creates an Importer that reads pages with q and writes them to
// store.
func New(
	cfg *config.Config,
	store lifecycle.EventStore,
	q Querier,
) lifecycle.Importer {
	return &importer{cfg: cfg, store: store, querier: q}
}

// ImportAll fetches pages until one comes back short. Remote failures
// and cancellation end the run and are kept in the result, store
// failures are returned as an error.
func (im *importer) ImportAll(ctx context.Context) (*lifecycle.ImportResult, error) {
	startTime := time.Now()
	res := &lifecycle.ImportResult{RunID: uuid.NewString()}
	log := slog.With("run_id", res.RunID)

	pageSize := max(im.cfg.Import.PageSize, 1)
	pace := newPacer(im.cfg.Import.PageDelay)

	log.Info("Starting events import",
		"endpoint", im.cfg.Import.Endpoint,
		"page_size", pageSize,
		"min_year", im.cfg.MinYear,
	)

	err := im.run(ctx, log, pace, pageSize, res)
	res.Duration = time.Since(startTime)
	im.report(log, res, err)
	return res, err
}

func (im *importer) run(
	ctx context.Context,
	log *slog.Logger,
	pace *pacer,
	pageSize int,
	res *lifecycle.ImportResult,
) error {
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			res.Err = CancelledError(err)
			return nil
		}
		if err := pace.wait(ctx); err != nil {
			res.Err = CancelledError(err)
			return nil
		}

		bindings, err := im.fetchPage(ctx, pageSize, offset)
		if err != nil {
			if isMalformed(err) {
				log.Warn("Unexpected response shape, treating as end of data",
					"offset", offset, "error", err)
				res.Complete = true
				return nil
			}
			if iosparql.IsCancelled(err) {
				err = CancelledError(err)
			}
			log.Error("Cannot fetch page, stopping import",
				"offset", offset, "error", err)
			res.Err = err
			return nil
		}

		imported, skipped, err := im.storePage(ctx, log, bindings)
		if err != nil {
			log.Error("Cannot store page", "offset", offset, "error", err)
			return StoreError(res.Pages+1, err)
		}
		pace.pageDone()
		res.Pages++
		res.Imported += imported
		res.Skipped += skipped

		log.Info("Page imported",
			"page", res.Pages,
			"offset", offset,
			"bindings", len(bindings),
			"imported", imported,
			"skipped", skipped,
		)

		if len(bindings) < pageSize {
			res.Complete = true
			return nil
		}
	}
}

func (im *importer) fetchPage(
	ctx context.Context,
	pageSize, offset int,
) ([]iosparql.Binding, error) {
	q, err := iosparql.EventsQuery(iosparql.QueryParams{
		MinYear: im.cfg.MinYear,
		Limit:   pageSize,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	return im.querier.Query(ctx, q)
}

// storePage upserts the candidates of one page in a single transaction.
// Bindings repeating an external id already seen on the page are
// ignored.
func (im *importer) storePage(
	ctx context.Context,
	log *slog.Logger,
	bindings []iosparql.Binding,
) (imported, skipped int, err error) {
	var cands []*candidate
	seen := make(map[string]struct{})
	for _, b := range bindings {
		c, reason := toCandidate(b, im.cfg.MinYear)
		if reason != "" {
			skipped++
			log.Debug("Skipping binding",
				"item", b.Get("item"),
				"label", b.Get("itemLabel"),
				"reason", string(reason),
			)
			continue
		}
		if c.ExternalID != "" {
			if _, ok := seen[c.ExternalID]; ok {
				continue
			}
			seen[c.ExternalID] = struct{}{}
		}
		cands = append(cands, c)
	}

	if len(cands) == 0 {
		return 0, skipped, nil
	}

	// A page that was fetched is stored even if the run is cancelled
	// meanwhile.
	err = im.store.InTx(context.WithoutCancel(ctx), func(tx lifecycle.EventTx) error {
		for _, c := range cands {
			ev, err := resolve(tx, c)
			if err != nil {
				return err
			}
			apply(ev, c)
			if err = tx.Save(ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, skipped, err
	}
	return len(cands), skipped, nil
}

// resolve finds the stored event a candidate updates, or returns a new
// one. Matching by external id comes first, then by exact name and start
// year. A name and year match that carries a different external id is a
// different entity.
func resolve(tx lifecycle.EventTx, c *candidate) (*schema.Event, error) {
	if c.ExternalID != "" {
		ev, err := tx.ByExternalID(c.ExternalID)
		if err != nil || ev != nil {
			return ev, err
		}
	}

	ev, err := tx.ByNameYear(c.Name, c.StartDate.Year())
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return &schema.Event{}, nil
	}

	stored := ev.ExternalID.String
	switch {
	case !ev.ExternalID.Valid || stored == "":
		if c.ExternalID != "" {
			ev.ExternalID = sql.NullString{String: c.ExternalID, Valid: true}
		}
	case c.ExternalID != "" && stored != c.ExternalID:
		return &schema.Event{}, nil
	}
	return ev, nil
}

// apply overwrites descriptive fields with the fetched values.
func apply(ev *schema.Event, c *candidate) {
	if ev.ID == 0 && c.ExternalID != "" {
		ev.ExternalID = sql.NullString{String: c.ExternalID, Valid: true}
	}

	ev.Name = c.Name
	ev.StartDate = c.StartDate
	ev.EndDate = sql.NullTime{}
	if c.EndDate != nil {
		ev.EndDate = sql.NullTime{Time: *c.EndDate, Valid: true}
	}
	ev.Country = c.Country
	ev.CountryISO = sql.NullString{String: c.CountryISO, Valid: c.CountryISO != ""}
	ev.Latitude = sql.NullFloat64{}
	ev.Longitude = sql.NullFloat64{}
	if c.Latitude != nil && c.Longitude != nil {
		ev.Latitude = sql.NullFloat64{Float64: *c.Latitude, Valid: true}
		ev.Longitude = sql.NullFloat64{Float64: *c.Longitude, Valid: true}
	}
	ev.Description = c.Description
	ev.Type = c.Type
	ev.Sources = c.Sources
	if c.Deaths != nil {
		ev.EstimatedDeaths = sql.NullInt64{Int64: *c.Deaths, Valid: true}
	}
}

func (im *importer) report(
	log *slog.Logger,
	res *lifecycle.ImportResult,
	err error,
) {
	dur := gnfmt.TimeString(res.Duration.Seconds())
	log.Info("Import finished",
		"imported", res.Imported,
		"skipped", res.Skipped,
		"pages", res.Pages,
		"complete", res.Complete,
		"run_error", res.Err,
		"error", err,
		"duration", dur,
	)

	switch {
	case err != nil:
		gn.Warn("Import failed after <em>%s</em> events", humanize.Comma(int64(res.Imported)))
	case res.Err != nil:
		gn.Warn(
			"Import stopped early: <em>%s</em> events imported in %s",
			humanize.Comma(int64(res.Imported)), dur,
		)
	default:
		gn.Info(
			"Imported <em>%s</em> events from %d pages (%s skipped) in <em>%s</em>",
			humanize.Comma(int64(res.Imported)),
			res.Pages,
			humanize.Comma(int64(res.Skipped)),
			dur,
		)
	}
}

func isMalformed(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) &&
		gnErr.Code == errcode.SparqlMalformedResponseError
}
