package style

import (
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
)

// Block is a named group of CSS rules, optionally wrapped in an @media
// condition.
type Block struct {
	ID string `json:"id"`
	// Media is the value of the media attribute of the <style> element.
	Media string `json:"media,omitempty"`
	// Condition wraps every rule in "@media <Condition> { ... }".
	Condition string   `json:"condition,omitempty"`
	Rules     []string `json:"rules"`
}

// CSS returns the block contents.
func (b Block) CSS() string {
	if len(b.Rules) == 0 {
		return ""
	}
	body := strings.Join(b.Rules, "")
	if b.Condition == "" {
		return body
	}
	return "@media " + b.Condition + " { " + body + "}"
}

// StyleSheet returns the block as a safehtml.StyleSheet. Every rule in a
// Block is produced by this package from escaped input.
func (b Block) StyleSheet() safehtml.StyleSheet {
	return uncheckedconversions.StyleSheetFromStringKnownToSatisfyTypeContract(b.CSS())
}

// cssString escapes s for use inside a double quoted CSS string.
func cssString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n', '\r', '\f':
			sb.WriteString(`\a `)
		case '<':
			sb.WriteString(`\3c `)
		case '>':
			sb.WriteString(`\3e `)
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
