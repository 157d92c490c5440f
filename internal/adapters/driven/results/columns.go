package results

import (
	"strconv"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// File and sheet names of the two datasets.
const (
	BooksName     = "books"
	QuestionsName = "questions"
)

// BookColumns is the header of the books dataset.
var BookColumns = []string{"document_id", "wiki_title", "num_of_docs", "set_up_time"}

// QuestionColumns is the header of the questions dataset.
var QuestionColumns = []string{
	"document_id", "question_id", "question", "answer",
	"probability", "score", "top_k_retriever", "time_taken",
}

// BookRow formats a book record in BookColumns order.
func BookRow(b domain.BookMetricRecord) []string {
	return []string{
		b.DocumentID,
		b.Title,
		strconv.Itoa(b.NumDocuments),
		FormatFloat(b.IndexBuildSeconds),
	}
}

// QuestionRow formats a question record in QuestionColumns order.
func QuestionRow(q domain.QAMetricRecord) []string {
	return []string{
		q.DocumentID,
		strconv.Itoa(q.QuestionID),
		q.Question,
		q.Answer,
		FormatFloat(q.Probability),
		FormatFloat(q.Score),
		strconv.Itoa(q.TopKRetriever),
		FormatFloat(q.AnswerSeconds),
	}
}

// FormatFloat renders f with the fewest digits that round-trip.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
