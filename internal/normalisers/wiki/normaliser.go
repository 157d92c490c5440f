package wiki

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// DefaultTrailingSections are the sections after which an article carries no prose.
var DefaultTrailingSections = []string{
	"See also", "References", "Notes", "Footnotes", "Citations",
	"Further reading", "External links", "Bibliography", "Sources",
}

// Normaliser cleans encyclopedic markup.
type Normaliser struct {
	trailing map[string]bool
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithTrailingSections replaces the headings at which text is truncated.
// An empty list keeps every section.
func WithTrailingSections(headings ...string) Option {
	return func(n *Normaliser) {
		n.trailing = make(map[string]bool, len(headings))
		for _, h := range headings {
			n.trailing[strings.ToLower(strings.TrimSpace(h))] = true
		}
	}
}

// New creates a new wiki normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{}
	WithTrailingSections(DefaultTrailingSections...)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "wiki"
}

// Normalise returns the cleaned text of unit.
func (n *Normaliser) Normalise(ctx context.Context, unit *domain.TextUnit) (string, error) {
	if unit == nil {
		return "", domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return n.Clean(unit.RawText), nil
}

var (
	heading       = regexp.MustCompile(`^(={2,6})\s*(.*?)\s*={2,6}$`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	refTags       = regexp.MustCompile(`(?is)<ref[^>]*>.*?</ref>|<ref[^>]*/>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	citationMarks = regexp.MustCompile(`\[(\d+|citation needed|clarification needed)\]`)
	multiSpaces   = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// Clean strips markup from text and rejoins its paragraphs with blank lines.
func (n *Normaliser) Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = htmlComments.ReplaceAllString(text, "")
	text = refTags.ReplaceAllString(text, "")
	text = allTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = citationMarks.ReplaceAllString(text, "")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if m := heading.FindStringSubmatch(line); m != nil {
			flush()
			if n.trailing[strings.ToLower(m[2])] {
				break
			}
			continue
		}
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}
