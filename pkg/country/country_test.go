package country_test

import (
	"testing"

	"github.com/revatlas/revatlas/pkg/country"
	"github.com/stretchr/testify/assert"
)

func TestToAlpha2(t *testing.T) {
	tests := []struct {
		msg, code, res string
	}{
		{"alpha-3", "FRA", "FR"},
		{"alpha-3 lowercase", "fra", "FR"},
		{"alpha-3 with spaces", " deu ", "DE"},
		{"norway stays a string", "NOR", "NO"},
		{"kosovo", "XKX", "XK"},
		{"alpha-2", "fr", "FR"},
		{"unknown alpha-3", "ZZZ", "ZZZ"},
		{"empty", "", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, country.ToAlpha2(v.code), v.msg)
	}
}

func TestIsAlpha3(t *testing.T) {
	assert.True(t, country.IsAlpha3("rus"))
	assert.False(t, country.IsAlpha3("RU"))
	assert.False(t, country.IsAlpha3("QQQ"))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		msg, name, res string
	}{
		{"diacritics", "République Française", "republique francaise"},
		{"already normal", "republique francaise", "republique francaise"},
		{"punctuation", "Congo, Democratic Republic of the", "congo democratic republic of the"},
		{"apostrophe and dash", "Côte-d'Ivoire", "cote d ivoire"},
		{"extra spaces", "  United   States ", "united states"},
		{"empty", "", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, country.NormalizeName(v.name), v.msg)
	}

	assert.Equal(t,
		country.NormalizeName("République Française"),
		country.NormalizeName("republique francaise"),
	)
}
