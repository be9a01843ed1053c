package locale

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Formats holds the strftime patterns used by the date, datetime, and time
// cell renderers. They follow the short date / short date-time / time
// conventions of the active locale.
type Formats struct {
	ShortDate     string `json:"shortDate" yaml:"shortDate"`
	ShortDateTime string `json:"shortDateTime" yaml:"shortDateTime"`
	Time          string `json:"time" yaml:"time"`
}

// Merge returns f with empty patterns filled from fallback.
func (f Formats) Merge(fallback Formats) Formats {
	if strings.TrimSpace(f.ShortDate) == "" {
		f.ShortDate = fallback.ShortDate
	}
	if strings.TrimSpace(f.ShortDateTime) == "" {
		f.ShortDateTime = fallback.ShortDateTime
	}
	if strings.TrimSpace(f.Time) == "" {
		f.Time = fallback.Time
	}
	return f
}

// Default is the English preset.
var Default = Formats{
	ShortDate:     "%m/%d/%Y",
	ShortDateTime: "%m/%d/%Y %-I:%M %p",
	Time:          "%-I:%M %p",
}

var (
	presetsMu sync.RWMutex
	presets   = []preset{
		{tag: language.English, formats: Default},
		{tag: language.Spanish, formats: Formats{ShortDate: "%d/%m/%Y", ShortDateTime: "%d/%m/%Y %H:%M", Time: "%H:%M"}},
		{tag: language.French, formats: Formats{ShortDate: "%d/%m/%Y", ShortDateTime: "%d/%m/%Y %H:%M", Time: "%H:%M"}},
		{tag: language.German, formats: Formats{ShortDate: "%d.%m.%Y", ShortDateTime: "%d.%m.%Y %H:%M", Time: "%H:%M"}},
		{tag: language.Portuguese, formats: Formats{ShortDate: "%d/%m/%Y", ShortDateTime: "%d/%m/%Y %H:%M", Time: "%H:%M"}},
		{tag: language.Italian, formats: Formats{ShortDate: "%d/%m/%Y", ShortDateTime: "%d/%m/%Y %H:%M", Time: "%H:%M"}},
	}
	matcher language.Matcher
)

type preset struct {
	tag     language.Tag
	formats Formats
}

// Register adds or replaces the preset for tag. Later Match calls see it.
func Register(tag language.Tag, formats Formats) {
	presetsMu.Lock()
	defer presetsMu.Unlock()

	formats = formats.Merge(Default)
	for i := range presets {
		if presets[i].tag == tag {
			presets[i].formats = formats
			matcher = nil
			return
		}
	}
	presets = append(presets, preset{tag: tag, formats: formats})
	matcher = nil
}

// Match returns the preset closest to the requested locale (a BCP 47 tag
// such as "es-ES" or an Accept-Language style list). Unknown or malformed
// locales resolve to Default.
func Match(locale string) Formats {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(locale, "_", "-"))
	if err != nil || len(tags) == 0 {
		return Default
	}

	presetsMu.Lock()
	if matcher == nil {
		supported := make([]language.Tag, len(presets))
		for i, p := range presets {
			supported[i] = p.tag
		}
		matcher = language.NewMatcher(supported)
	}
	m := matcher
	snapshot := append([]preset(nil), presets...)
	presetsMu.Unlock()

	_, idx, confidence := m.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(snapshot) {
		return Default
	}
	return snapshot[idx].formats
}
