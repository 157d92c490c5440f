// Package wiki provides a Normaliser for encyclopedia article extracts.
// It removes section headings, leftover HTML and entities, and boilerplate
// trailing sections such as references, leaving paragraphs separated by a
// single blank line.
package wiki
