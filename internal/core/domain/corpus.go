package domain

import "fmt"

// Page is a document returned by the knowledge source for an exact title.
type Page struct {
	// Title is the resolved page title.
	Title string

	// Content is the page's plain text.
	Content string

	// URL is the canonical page location, if known.
	URL string
}

// TextUnit is one fetched document staged for indexing.
// Units are transient: they exist only while their book is processed.
type TextUnit struct {
	// Sequence is the 1-based number of the unit within its book.
	// Only successful fetches consume a number.
	Sequence int

	// Title is the knowledge source title the unit was fetched from.
	Title string

	// RawText is the unit content before cleaning.
	RawText string
}

// Passage is a paragraph-granularity unit of retrieval and reading.
type Passage struct {
	// ID is "<sequence>-<position>", stable for identical staging content.
	ID string

	// Sequence references the TextUnit the passage came from.
	Sequence int

	// Position is the paragraph ordinal within the unit.
	Position int

	// Text is the cleaned paragraph text.
	Text string
}

// PassageID builds the identifier of a passage.
func PassageID(sequence, position int) string {
	return fmt.Sprintf("%d-%d", sequence, position)
}

// ScoredPassage is a passage returned by a retriever.
type ScoredPassage struct {
	Passage Passage

	// Score is the retrieval relevance score. Higher is better.
	Score float64
}

// FetchReport summarises corpus acquisition for one book.
type FetchReport struct {
	// Title is the book title used for the search.
	Title string

	// Candidates is the number of titles returned by the search.
	Candidates int

	// Excluded lists candidates dropped by the denylist. They are never fetched.
	Excluded []string

	// Skips lists candidates whose fetch failed.
	Skips []FetchSkip

	// Units lists the staged units in sequence order.
	Units []TextUnit
}

// Count returns the number of text units persisted for the book.
func (r *FetchReport) Count() int {
	return len(r.Units)
}
