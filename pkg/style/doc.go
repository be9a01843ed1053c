// Package style builds the CSS blocks a table needs: the narrow-viewport
// rules that label each cell with its column title, and the icon classes of
// an element's type catalog. Blocks live in a Sheet owned by the element;
// rendering surfaces decide where to attach them.
package style
