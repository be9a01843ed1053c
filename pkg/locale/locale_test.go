package locale

import (
	"testing"

	"golang.org/x/text/language"
)

func TestFromDjango(t *testing.T) {
	cases := map[string]string{
		"m/d/Y":     "%m/%d/%Y",
		"Y-m-d H:i": "%Y-%m-%d %H:%M",
		"d.m.Y":     "%d.%m.%Y",
		`H\h i`:     "%Hh %M",
		"j N Y, P":  "%-d %b %Y, %-I:%M %P",
		"100%":      "100%%",
		"":          "",
	}
	for in, want := range cases {
		if got := FromDjango(in); got != want {
			t.Fatalf("FromDjango(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	if got := Match(""); got != Default {
		t.Fatalf("empty locale should resolve to default, got %+v", got)
	}
	if got := Match("es-ES"); got.ShortDate != "%d/%m/%Y" {
		t.Fatalf("es-ES should resolve to the spanish preset, got %+v", got)
	}
	if got := Match("de_DE"); got.ShortDate != "%d.%m.%Y" {
		t.Fatalf("underscore locales should be accepted, got %+v", got)
	}
	if got := Match("fr-CA,fr;q=0.9,en;q=0.5"); got.Time != "%H:%M" {
		t.Fatalf("accept-language lists should match the first supported tag, got %+v", got)
	}
}

func TestRegisterFillsMissingPatterns(t *testing.T) {
	Register(language.Dutch, Formats{ShortDate: "%d-%m-%Y"})
	got := Match("nl")
	if got.ShortDate != "%d-%m-%Y" {
		t.Fatalf("registered preset not used: %+v", got)
	}
	if got.Time != Default.Time {
		t.Fatalf("missing pattern should come from default, got %q", got.Time)
	}
}
