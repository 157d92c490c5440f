// Package staging holds the staging-area adapters that keep the fetched text
// units of the book being processed.
//
// The filesystem adapter writes one numbered file per unit, mirroring the
// documents/N.txt layout benchmark users inspect; the memory adapter keeps
// units in process and is used by tests and the MCP server.
package staging
