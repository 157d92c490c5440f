package domain

import "fmt"

// Book is a catalog entry whose corpus is assembled from the knowledge source.
type Book struct {
	// DocumentID is the unique key joining books, questions and metrics.
	DocumentID string

	// Title is the title used to query the knowledge source.
	Title string
}

// Question is a benchmark question tied to exactly one book.
type Question struct {
	// DocumentID references the Book the question belongs to.
	DocumentID string

	// QuestionID is the question's original row identity in the questions table.
	QuestionID int

	// Text is the question itself.
	Text string
}

// Catalog holds the books and questions of a benchmark run in input order.
type Catalog struct {
	Books     []Book
	Questions []Question
}

// Validate checks catalog integrity before a run starts.
// It reports every problem at once as a *CatalogIntegrityError.
func (c *Catalog) Validate() error {
	var problems []string

	books := make(map[string]bool, len(c.Books))
	for i, b := range c.Books {
		if b.DocumentID == "" {
			problems = append(problems, fmt.Sprintf("book %d has empty document_id", i))
			continue
		}
		if books[b.DocumentID] {
			problems = append(problems, fmt.Sprintf("duplicate document_id %s", b.DocumentID))
		}
		books[b.DocumentID] = true
	}

	type questionKey struct {
		doc string
		id  int
	}
	seen := make(map[questionKey]bool, len(c.Questions))
	for _, q := range c.Questions {
		if !books[q.DocumentID] {
			problems = append(problems,
				fmt.Sprintf("question %d references unknown document_id %s", q.QuestionID, q.DocumentID))
			continue
		}
		k := questionKey{doc: q.DocumentID, id: q.QuestionID}
		if seen[k] {
			problems = append(problems,
				fmt.Sprintf("duplicate question_id %d for document_id %s", q.QuestionID, q.DocumentID))
		}
		seen[k] = true
	}

	if len(problems) > 0 {
		return &CatalogIntegrityError{Problems: problems}
	}
	return nil
}

// QuestionsFor returns the questions of a book in catalog order.
func (c *Catalog) QuestionsFor(documentID string) []Question {
	var out []Question
	for _, q := range c.Questions {
		if q.DocumentID == documentID {
			out = append(out, q)
		}
	}
	return out
}
