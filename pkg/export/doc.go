// Package export turns the rows currently loaded in a table into a
// downloadable spreadsheet. HTML produces the Excel-compatible HTML document
// served as a data URI; XLSX writes a native workbook.
package export
