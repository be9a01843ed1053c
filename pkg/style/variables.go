package style

import (
	"regexp"
	"sort"
	"strings"
)

var customPropertyName = regexp.MustCompile(`^--[A-Za-z0-9_-]+$`)

// Variables returns a block declaring vars as custom properties on :root.
// Names that are not valid custom property names and values that could
// close the declaration are skipped. Keys are emitted in sorted order.
func Variables(id string, vars map[string]string) Block {
	block := Block{ID: id}
	if len(vars) == 0 {
		return block
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		value := strings.TrimSpace(vars[name])
		if !customPropertyName.MatchString(name) || value == "" || strings.ContainsAny(value, ";{}<>\\\"'\n\r") {
			continue
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString(";\n")
	}
	if sb.Len() == 0 {
		return block
	}
	block.Rules = []string{":root {\n" + sb.String() + "}\n"}
	return block
}
