package ioimport

import (
	"errors"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnlib"
	"github.com/go-playground/validator/v10"
	"github.com/revatlas/revatlas/internal/iosparql"
)

var (
	qidRe    = regexp.MustCompile(`^Q[0-9]+$`)
	validate = validator.New(validator.WithRequiredStructEnabled())
)

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006"}

const maxNameLen = 500

// candidate is an event built from one binding before it is matched
// against the store.
type candidate struct {
	ExternalID  string `validate:"omitempty,max=32"`
	Name        string `validate:"required"`
	StartDate   time.Time
	EndDate     *time.Time
	Country     string   `validate:"max=255"`
	CountryISO  string   `validate:"omitempty,alpha,min=2,max=3"`
	Latitude    *float64 `validate:"omitnil,latitude"`
	Longitude   *float64 `validate:"omitnil,longitude"`
	Type        string   `validate:"max=255"`
	Description string
	Deaths      *int64 `validate:"omitnil,min=0"`
	Sources     string
}

// skipReason tells why a binding did not produce a candidate.
type skipReason string

const (
	skipNoName     skipReason = "no name"
	skipNoStart    skipReason = "unparseable start date"
	skipTooEarly   skipReason = "start year below minimum"
	skipValidation skipReason = "invalid field"
)

// toCandidate maps Wikidata binding fields to a candidate. The second
// value is empty when the candidate can be stored.
func toCandidate(b iosparql.Binding, minYear int) (*candidate, skipReason) {
	uri := strings.TrimSpace(b.Get("item"))
	qid := externalID(uri)

	name := cleanLabel(b.Get("itemLabel"))
	// The label service falls back to the QID when an item has no
	// English label.
	if name == "" || name == qid {
		return nil, skipNoName
	}

	start, ok := parseDate(b.Get("start"))
	if !ok {
		return nil, skipNoStart
	}
	if start.Year() < minYear {
		return nil, skipTooEarly
	}

	res := &candidate{
		ExternalID:  qid,
		Name:        truncate(name, maxNameLen),
		StartDate:   start,
		Country:     cleanLabel(b.Get("countryLabel")),
		CountryISO:  strings.ToUpper(strings.TrimSpace(b.Get("countryIso"))),
		Type:        cleanLabel(b.Get("typeLabel")),
		Description: cleanLabel(b.Get("itemDescription")),
	}
	if qid != "" {
		res.Sources = uri
	}
	if end, ok := parseDate(b.Get("end")); ok {
		res.EndDate = &end
	}
	if lon, lat, ok := parsePoint(b.Get("coord")); ok {
		res.Latitude, res.Longitude = &lat, &lon
	}
	if d, ok := parseDeaths(b.Get("deaths")); ok {
		res.Deaths = &d
	}

	if err := validate.Struct(res); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, skipValidation
		}
		for _, fe := range fieldErrs {
			if !res.clear(fe.StructField()) {
				return nil, skipValidation
			}
			slog.Debug("Dropping invalid field",
				"item", uri, "field", fe.StructField(), "value", fe.Value())
		}
	}
	return res, ""
}

// clear empties an optional field that failed validation. Only the
// name and the start date make a record, so everything else can go.
func (c *candidate) clear(field string) bool {
	switch field {
	case "ExternalID":
		c.ExternalID, c.Sources = "", ""
	case "Country":
		c.Country = ""
	case "CountryISO":
		c.CountryISO = ""
	case "Latitude", "Longitude":
		c.Latitude, c.Longitude = nil, nil
	case "Type":
		c.Type = ""
	case "Deaths":
		c.Deaths = nil
	default:
		return false
	}
	return true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// externalID returns the QID from an entity URI, or an empty string.
func externalID(uri string) string {
	if uri == "" {
		return ""
	}
	id := path.Base(uri)
	if qidRe.MatchString(id) {
		return id
	}
	return ""
}

func cleanLabel(s string) string {
	return strings.TrimSpace(gnlib.FixUtf8(s))
}

// parseDate accepts RFC 3339 timestamps, dates and bare years. The
// result is midnight UTC of that day.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// parsePoint reads a WKT point "Point(lon lat)". A globe IRI in front of
// the point is ignored.
func parsePoint(s string) (lon, lat float64, ok bool) {
	low := strings.ToLower(s)
	i := strings.Index(low, "point(")
	if i < 0 || !strings.HasSuffix(strings.TrimSpace(low), ")") {
		return 0, 0, false
	}
	inner := strings.TrimSpace(s[i+len("point("):])
	inner = strings.TrimSuffix(inner, ")")

	fields := strings.Fields(inner)
	if len(fields) != 2 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

func parseDeaths(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f), true
}
