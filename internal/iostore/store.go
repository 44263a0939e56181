// Package iostore implements lifecycle.EventStore with GORM.
// It works with any dialect opened by iodb.
package iostore

import (
	"context"
	"errors"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/country"
	"github.com/revatlas/revatlas/pkg/db"
	"github.com/revatlas/revatlas/pkg/lifecycle"
	"github.com/revatlas/revatlas/pkg/schema"
	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

// New creates an EventStore on top of a connected operator.
func New(op db.Operator) lifecycle.EventStore {
	return &store{db: op.DB()}
}

// InTx runs fn in a transaction. Errors created by EventTx methods are
// returned as is, anything else is reported as a commit failure.
func (s *store) InTx(
	ctx context.Context,
	fn func(lifecycle.EventTx) error,
) error {
	if s.db == nil {
		return NotConnectedError()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&eventTx{db: tx})
	})
	if err == nil {
		return nil
	}

	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return err
	}
	return CommitError(err)
}

// FindEvents applies the country filters. An ISO code has priority;
// when it matches nothing and a name is given, the normalized name is
// used instead.
func (s *store) FindEvents(
	ctx context.Context,
	f lifecycle.EventFilter,
) ([]schema.Event, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	if f.IsEmpty() {
		return nil, MissingFilterError()
	}

	if f.CountryISO != "" {
		iso := country.ToAlpha2(f.CountryISO)
		res, err := s.find(ctx, f.MinYear, "country_iso = ?", iso)
		if err != nil {
			return nil, err
		}
		if len(res) > 0 || f.Country == "" {
			return res, nil
		}
	}

	norm := country.NormalizeName(f.Country)
	if norm == "" {
		return []schema.Event{}, nil
	}
	return s.find(ctx, f.MinYear, "country_norm = ?", norm)
}

func (s *store) find(
	ctx context.Context,
	minYear int,
	cond string,
	arg any,
) ([]schema.Event, error) {
	q := s.db.WithContext(ctx).Where(cond, arg)
	if minYear > 0 {
		from, _ := schema.YearRange(minYear)
		q = q.Where("start_date >= ?", from)
	}

	res := []schema.Event{}
	err := q.Order("start_date DESC").Order("id").Find(&res).Error
	if err != nil {
		return nil, QueryError("find events", err)
	}
	return res, nil
}

// EventByID returns nil without error when the event does not exist.
func (s *store) EventByID(ctx context.Context, id uint) (*schema.Event, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}

	var ev schema.Event
	res := s.db.WithContext(ctx).Limit(1).Find(&ev, id)
	if res.Error != nil {
		return nil, QueryError("event by id", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &ev, nil
}

// Count returns the number of stored events.
func (s *store) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, NotConnectedError()
	}

	var res int64
	err := s.db.WithContext(ctx).Model(&schema.Event{}).Count(&res).Error
	if err != nil {
		return 0, QueryError("count events", err)
	}
	return res, nil
}

type eventTx struct {
	db *gorm.DB
}

func (t *eventTx) ByExternalID(id string) (*schema.Event, error) {
	return t.first("by external id", "external_id = ?", id)
}

func (t *eventTx) ByNameYear(name string, year int) (*schema.Event, error) {
	from, to := schema.YearRange(year)
	return t.first(
		"by name and year",
		"name = ? AND start_date >= ? AND start_date < ?",
		name, from, to,
	)
}

func (t *eventTx) first(op, cond string, args ...any) (*schema.Event, error) {
	var ev schema.Event
	res := t.db.Where(cond, args...).Order("id").Limit(1).Find(&ev)
	if res.Error != nil {
		return nil, QueryError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &ev, nil
}

func (t *eventTx) Save(ev *schema.Event) error {
	if err := t.db.Save(ev).Error; err != nil {
		return SaveError(ev.Name, err)
	}
	return nil
}
