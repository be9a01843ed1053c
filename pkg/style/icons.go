package style

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

var base64Payload = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// IconsBlockID returns the identifier of the type icon block of element.
func IconsBlockID(element string) string {
	return "types-" + sanitize.ClassName(element)
}

// TypeIcons returns one class per catalog entry, each painting the entry's
// icon as a 16x16 inline block. Icons are base64 PNG payloads; inline SVG
// markup is also accepted and sanitised first. Entries whose icon is neither
// are skipped.
func TypeIcons(element string, catalog *cells.TypeCatalog) Block {
	block := Block{
		ID:    IconsBlockID(element),
		Media: ScreenMedia,
	}
	for _, info := range catalog.Types() {
		uri, ok := iconURI(info.Icon)
		if !ok {
			continue
		}
		class, _ := catalog.Lookup(info.Type)
		block.Rules = append(block.Rules, fmt.Sprintf(
			".%s { display:inline-block; background: url(%s); width: 16px; height: 16px; vertical-align: middle; } ",
			class, uri,
		))
	}
	return block
}

func iconURI(icon string) (string, bool) {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return "", false
	}
	if strings.HasPrefix(icon, "<") {
		markup := sanitize.IconMarkup(icon)
		if markup == "" {
			return "", false
		}
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(markup)), true
	}
	if !base64Payload.MatchString(icon) {
		return "", false
	}
	return "data:image/png;base64," + icon, true
}
