package domain

// AnswerResult is the best answer span extracted for a question.
type AnswerResult struct {
	// Text is the extracted answer. Empty when no answer was found.
	Text string

	// Probability is the reader's confidence in [0,1].
	Probability float64

	// Score is the reader's relevance score.
	Score float64

	// Context is the passage the answer was taken from, if any.
	Context string
}

// NoAnswer returns the defined result for questions without candidate passages.
func NoAnswer() AnswerResult {
	return AnswerResult{}
}

// IsEmpty reports whether the result carries no answer.
func (a AnswerResult) IsEmpty() bool {
	return a.Text == ""
}
