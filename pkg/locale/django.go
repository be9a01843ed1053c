package locale

import "strings"

// djangoSpecifiers maps Django date format characters onto strftime
// specifiers understood by github.com/ncruces/go-strftime.
var djangoSpecifiers = map[rune]string{
	'd': "%d",
	'j': "%-d",
	'D': "%a",
	'l': "%A",
	'm': "%m",
	'n': "%-m",
	'M': "%b",
	'N': "%b",
	'b': "%b",
	'F': "%B",
	'y': "%y",
	'Y': "%Y",
	'H': "%H",
	'G': "%-H",
	'h': "%I",
	'g': "%-I",
	'i': "%M",
	's': "%S",
	'A': "%p",
	'a': "%P",
	'P': "%-I:%M %P",
	'e': "%Z",
	'O': "%z",
	'z': "%j",
	'w': "%w",
	'W': "%V",
}

// FromDjango converts a Django date format string (the SHORT_DATE_FORMAT,
// SHORT_DATETIME_FORMAT and TIME_FORMAT settings) into strftime. Characters
// without a mapping are copied literally; a backslash escapes the next
// character.
func FromDjango(format string) string {
	var out strings.Builder
	escaped := false
	for _, r := range format {
		if escaped {
			writeLiteral(&out, r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if spec, ok := djangoSpecifiers[r]; ok {
			out.WriteString(spec)
			continue
		}
		writeLiteral(&out, r)
	}
	return out.String()
}

// FormatsFromDjango converts the three Django settings at once.
func FormatsFromDjango(shortDate, shortDateTime, timeFormat string) Formats {
	return Formats{
		ShortDate:     FromDjango(shortDate),
		ShortDateTime: FromDjango(shortDateTime),
		Time:          FromDjango(timeFormat),
	}
}

func writeLiteral(out *strings.Builder, r rune) {
	if r == '%' {
		out.WriteString("%%")
		return
	}
	out.WriteRune(r)
}
