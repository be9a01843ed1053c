// Package template defines the template engine seam used by the HTML
// surface and the spreadsheet export. Engines live in subpackages.
package template
