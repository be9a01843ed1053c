package html

import (
	"strings"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// ChromeClass is a typed identifier for the CSS classes of the panel chrome.
type ChromeClass string

const (
	ClassPanel   ChromeClass = "panel panel-primary"
	ClassHeading ChromeClass = "panel-heading"
	ClassTitle   ChromeClass = "panel-title"
	ClassBody    ChromeClass = "panel-body"
	ClassToolbar ChromeClass = "btn-group"
	ClassTable   ChromeClass = "table table-striped table-bordered table-hover"
)

// Classes overrides the chrome classes. Empty fields keep the defaults.
type Classes struct {
	Panel   string `json:"panel" yaml:"panel"`
	Heading string `json:"heading" yaml:"heading"`
	Title   string `json:"title" yaml:"title"`
	Body    string `json:"body" yaml:"body"`
	Toolbar string `json:"toolbar" yaml:"toolbar"`
	Table   string `json:"table" yaml:"table"`
	// Buttons maps a button to the class used while it is enabled.
	Buttons map[table.Button]string `json:"buttons,omitempty" yaml:"buttons,omitempty"`
	// Disabled is the class of a disabled button.
	Disabled string `json:"disabled" yaml:"disabled"`
}

// DefaultClasses returns the bootstrap panel classes.
func DefaultClasses() Classes {
	return Classes{
		Panel:   string(ClassPanel),
		Heading: string(ClassHeading),
		Title:   string(ClassTitle),
		Body:    string(ClassBody),
		Toolbar: string(ClassToolbar),
		Table:   string(ClassTable),
		Buttons: map[table.Button]string{
			table.ButtonEdit:    "btn-info",
			table.ButtonDelete:  "btn-warning",
			table.ButtonRefresh: "btn-info",
			table.ButtonXLS:     "btn-info",
			table.ButtonXLSX:    "btn-info",
		},
		Disabled: "disabled",
	}
}

func (c Classes) merge(override Classes) Classes {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	out := Classes{
		Panel:    pick(c.Panel, override.Panel),
		Heading:  pick(c.Heading, override.Heading),
		Title:    pick(c.Title, override.Title),
		Body:     pick(c.Body, override.Body),
		Toolbar:  pick(c.Toolbar, override.Toolbar),
		Table:    pick(c.Table, override.Table),
		Disabled: pick(c.Disabled, override.Disabled),
		Buttons:  make(map[table.Button]string, len(c.Buttons)+len(override.Buttons)),
	}
	for button, class := range c.Buttons {
		out.Buttons[button] = class
	}
	for button, class := range override.Buttons {
		if class != "" {
			out.Buttons[button] = class
		}
	}
	return out
}

// ClassTokenPrefix prefixes the theme tokens that override chrome classes:
// class-panel, class-heading, class-title, class-body, class-toolbar,
// class-table, class-disabled and class-button-<button>.
const ClassTokenPrefix = "class-"

// themed overrides c with the class tokens of a theme.
func (c Classes) themed(tokens map[string]string) Classes {
	if len(tokens) == 0 {
		return c
	}
	token := func(name string) string {
		return strings.TrimSpace(tokens[ClassTokenPrefix+name])
	}
	override := Classes{
		Panel:    token("panel"),
		Heading:  token("heading"),
		Title:    token("title"),
		Body:     token("body"),
		Toolbar:  token("toolbar"),
		Table:    token("table"),
		Disabled: token("disabled"),
	}
	buttonPrefix := ClassTokenPrefix + "button-"
	for name, class := range tokens {
		if !strings.HasPrefix(name, buttonPrefix) {
			continue
		}
		if override.Buttons == nil {
			override.Buttons = make(map[table.Button]string)
		}
		override.Buttons[table.Button(strings.TrimPrefix(name, buttonPrefix))] = strings.TrimSpace(class)
	}
	return c.merge(override)
}

// Button returns the class of a control in the given state.
func (c Classes) Button(state table.ControlState) string {
	if !state.Enabled {
		return c.Disabled
	}
	if class, ok := c.Buttons[state.Button]; ok {
		return class
	}
	return "btn-default"
}
