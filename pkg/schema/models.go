// Package schema provides database schema models for revatlas.
package schema

import (
	"database/sql"
	"strings"
	"time"

	"github.com/revatlas/revatlas/pkg/country"
	"gorm.io/gorm"
)

// Event is a revolution, uprising or similar historical event.
type Event struct {
	// ID is the surrogate key assigned by the store.
	ID uint `gorm:"primaryKey;autoIncrement"`

	// ExternalID is a Wikidata QID. It is unique when not NULL and is
	// the main key for recognizing already imported events.
	ExternalID sql.NullString `gorm:"column:external_id;size:32;uniqueIndex"`

	// Name is the display label of the event.
	Name string `gorm:"size:500;not null;index"`

	// StartDate is the day the event started. Events without a start
	// date are never stored.
	StartDate time.Time `gorm:"not null;index"`

	// EndDate is the day the event ended, if known.
	EndDate sql.NullTime

	// Country is a free-text country label.
	Country string `gorm:"size:255"`

	// CountryNorm is Country normalized by country.NormalizeName.
	// It is maintained by BeforeSave.
	CountryNorm string `gorm:"size:255;index"`

	// CountryISO is an ISO 3166-1 alpha-2 code in upper case.
	CountryISO sql.NullString `gorm:"column:country_iso;size:3;index"`

	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64

	// Type is the kind of event (revolution, coup d'état, protest...).
	Type string `gorm:"size:255"`

	Description string `gorm:"type:text"`

	EstimatedDeaths sql.NullInt64

	// Sources keeps URLs describing the event.
	Sources string `gorm:"type:text"`

	// Tags is a comma-separated list of labels.
	Tags string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave keeps derived and normalized columns consistent.
func (e *Event) BeforeSave(_ *gorm.DB) error {
	e.CountryNorm = country.NormalizeName(e.Country)

	if e.ExternalID.Valid && strings.TrimSpace(e.ExternalID.String) == "" {
		e.ExternalID = sql.NullString{}
	}

	iso := country.ToAlpha2(e.CountryISO.String)
	e.CountryISO = sql.NullString{String: iso, Valid: iso != ""}
	return nil
}

// StartYear returns the year of the start date.
func (e *Event) StartYear() int {
	return e.StartDate.Year()
}

// YearRange returns the half-open interval [from, to) that covers the
// whole year.
func YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
