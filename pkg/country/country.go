// Package country normalizes country codes and country names so that
// events can be matched by ISO code or by a free-text country label.
package country

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed alpha3.yaml
var alpha3YAML []byte

// alpha3 maps ISO 3166-1 alpha-3 codes to alpha-2 codes. It is filled
// once at start and never modified afterwards.
var alpha3 = mustLoadAlpha3(alpha3YAML)

func mustLoadAlpha3(data []byte) map[string]string {
	res := make(map[string]string)
	if err := yaml.Unmarshal(data, &res); err != nil {
		panic(fmt.Sprintf("cannot parse embedded alpha-3 table: %s", err))
	}
	return res
}

// ToAlpha2 returns the uppercased alpha-2 form of an ISO country code.
// Known alpha-3 codes are translated, everything else is returned
// uppercased as is.
func ToAlpha2(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 3 {
		if res, ok := alpha3[code]; ok {
			return res
		}
	}
	return code
}

// IsAlpha3 reports whether the code is a known alpha-3 code.
func IsAlpha3(code string) bool {
	_, ok := alpha3[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// NormalizeName creates a matching key from a country name.
// Diacritics are removed, punctuation becomes whitespace, whitespace
// is collapsed and the result is lowercased.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		res = s
	}

	res = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, res)

	return strings.Join(strings.Fields(res), " ")
}
