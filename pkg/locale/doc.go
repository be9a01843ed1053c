// Package locale resolves the date/time patterns the cell renderers format
// with. Patterns are strftime strings; FromDjango converts the Django format
// settings the admin server publishes.
package locale
