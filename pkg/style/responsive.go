package style

import (
	"fmt"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

const (
	// NarrowViewport is the media condition under which table cells are
	// stacked and labelled.
	NarrowViewport = "(max-width: 979px)"
	// ScreenMedia is the media attribute of generated style elements.
	ScreenMedia = "screen"
)

// BlockID returns the style block identifier for a table.
func BlockID(tableID string) string {
	return "style-" + sanitize.ClassName(tableID)
}

// Responsive returns the narrow-viewport block for the table identified by
// tableID. Hidden columns get no ordinal: the n-th visible column is matched
// by td:nth-of-type(n).
func Responsive(tableID string, columns []model.Column) Block {
	id := sanitize.ClassName(tableID)
	block := Block{
		ID:        BlockID(tableID),
		Media:     ScreenMedia,
		Condition: NarrowViewport,
	}

	ordinal := 0
	for _, col := range columns {
		if !col.IsVisible() {
			continue
		}
		ordinal++
		title := cssString(sanitize.Text(col.Title))
		block.Rules = append(block.Rules,
			fmt.Sprintf("#%s td:nth-of-type(%d):before { content: \"%s\";}\n", id, ordinal, title),
			fmt.Sprintf("#%s td:nth-of-type(%d):empty { background-color: red ;}\n", id, ordinal),
		)
	}
	return block
}
