// Package printing renders OWS results for the shell. The plain format
// draws node and job tables with lipgloss; the JSON format prints indented
// JSON documents. Every line goes through the caller's Printer so shell
// output filters apply to both formats.
package printing
