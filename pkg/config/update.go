package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	s = c.Database.Driver
	if s != "" {
		res = append(res, OptDatabaseDriver(s))
	}
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	s = c.Database.Path
	if s != "" {
		res = append(res, OptDatabasePath(s))
	}

	s = c.Import.Endpoint
	if s != "" {
		res = append(res, OptImportEndpoint(s))
	}
	s = c.Import.UserAgent
	if s != "" {
		res = append(res, OptImportUserAgent(s))
	}
	i = c.Import.PageSize
	if i > 0 {
		res = append(res, OptImportPageSize(i))
	}
	d = c.Import.PageDelay
	if d > 0 {
		res = append(res, OptImportPageDelay(d))
	}
	i = c.Import.MaxAttempts
	if i > 0 {
		res = append(res, OptImportMaxAttempts(i))
	}
	d = c.Import.InitialBackoff
	if d > 0 {
		res = append(res, OptImportInitialBackoff(d))
	}
	d = c.Import.MaxRetryWait
	if d > 0 {
		res = append(res, OptImportMaxRetryWait(d))
	}
	d = c.Import.Timeout
	if d > 0 {
		res = append(res, OptImportTimeout(d))
	}
	s = c.Import.Schedule
	if s != "" {
		res = append(res, OptImportSchedule(s))
	}
	if c.Import.OnStartup {
		res = append(res, OptImportOnStartup(true))
	}

	i = c.Server.Port
	if i > 0 {
		res = append(res, OptServerPort(i))
	}
	if len(c.Server.CORSOrigins) > 0 {
		res = append(res, OptServerCORSOrigins(c.Server.CORSOrigins))
	}
	i = c.Server.RateLimit
	if i > 0 {
		res = append(res, OptServerRateLimit(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.MinYear
	if i > 0 {
		res = append(res, OptMinYear(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration, zeroOK bool) bool {
	res := d > 0 || (zeroOK && d == 0)
	if !res {
		gn.Warn("<em>%s</em> has to be a positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidURL(name, s string) bool {
	u, err := url.Parse(s)
	res := err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring '%s'", name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"postgres": s, "sqlite": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("  * %s", v))
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
