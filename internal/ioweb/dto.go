package ioweb

import (
	"time"

	"github.com/revatlas/revatlas/pkg/schema"
)

const dateLayout = "2006-01-02"

// eventJSON is the wire form of an event.
type eventJSON struct {
	ID              uint     `json:"id"`
	ExternalID      *string  `json:"externalId"`
	Name            string   `json:"name"`
	StartDate       string   `json:"startDate"`
	EndDate         *string  `json:"endDate"`
	Country         string   `json:"country"`
	CountryISO      *string  `json:"countryIso"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	EstimatedDeaths *int64   `json:"estimatedDeaths"`
	Sources         string   `json:"sources"`
	Tags            string   `json:"tags"`
}

func toJSON(ev *schema.Event) eventJSON {
	res := eventJSON{
		ID:          ev.ID,
		Name:        ev.Name,
		StartDate:   formatDate(ev.StartDate),
		Country:     ev.Country,
		Type:        ev.Type,
		Description: ev.Description,
		Sources:     ev.Sources,
		Tags:        ev.Tags,
	}
	if ev.ExternalID.Valid {
		res.ExternalID = &ev.ExternalID.String
	}
	if ev.EndDate.Valid {
		end := formatDate(ev.EndDate.Time)
		res.EndDate = &end
	}
	if ev.CountryISO.Valid {
		res.CountryISO = &ev.CountryISO.String
	}
	if ev.Latitude.Valid && ev.Longitude.Valid {
		res.Latitude = &ev.Latitude.Float64
		res.Longitude = &ev.Longitude.Float64
	}
	if ev.EstimatedDeaths.Valid {
		res.EstimatedDeaths = &ev.EstimatedDeaths.Int64
	}
	return res
}

func toJSONList(events []schema.Event) []eventJSON {
	res := make([]eventJSON, len(events))
	for i := range events {
		res[i] = toJSON(&events[i])
	}
	return res
}

// formatDate prints the UTC day. Dates are stored as midnight UTC and
// drivers may hand them back in the local zone.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

type errorJSON struct {
	Error string `json:"error"`
}

type healthJSON struct {
	Status  string `json:"status"`
	Events  int64  `json:"events"`
	Version string `json:"version"`
}
