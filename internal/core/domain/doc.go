// Package domain defines the core business entities for qabench.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Book, Question, Catalog: The benchmark input
//   - TextUnit: A fetched document staged for one book
//   - Passage: A paragraph-level unit of retrieval and reading
//   - AnswerResult: The best answer span for a question
//   - BookMetricRecord, QAMetricRecord, RunResults: The benchmark output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
