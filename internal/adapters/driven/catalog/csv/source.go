// Package csv loads a benchmark catalog from a books table and a questions
// table stored as comma-separated files with a header row.
package csv

import (
	"bufio"
	"bytes"
	"context"
	encsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CatalogSource = (*Source)(nil)

// Column names read from the input files.
const (
	ColumnDocumentID = "document_id"
	ColumnTitle      = "wiki_title"
	ColumnQuestion   = "question"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads books and questions from two files.
type Source struct {
	booksPath     string
	questionsPath string
}

// NewSource creates a catalog source for the given files.
func NewSource(booksPath, questionsPath string) *Source {
	return &Source{booksPath: booksPath, questionsPath: questionsPath}
}

// Load reads both files. Integrity is checked by the caller.
func (s *Source) Load(ctx context.Context) (*domain.Catalog, error) {
	books, err := readFile(ctx, s.booksPath, ReadBooks)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	questions, err := readFile(ctx, s.questionsPath, ReadQuestions)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return &domain.Catalog{Books: books, Questions: questions}, nil
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadBooks parses a books table. Extra columns are ignored.
func ReadBooks(r io.Reader) ([]domain.Book, error) {
	t, err := readTable(r, ColumnDocumentID, ColumnTitle)
	if err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(t.rows))
	for _, row := range t.rows {
		books = append(books, domain.Book{
			DocumentID: t.value(row, ColumnDocumentID),
			Title:      t.value(row, ColumnTitle),
		})
	}
	return books, nil
}

// ReadQuestions parses a questions table. A question's id is its zero-based
// data row index in the file.
func ReadQuestions(r io.Reader) ([]domain.Question, error) {
	t, err := readTable(r, ColumnDocumentID, ColumnQuestion)
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(t.rows))
	for i, row := range t.rows {
		questions = append(questions, domain.Question{
			DocumentID: t.value(row, ColumnDocumentID),
			QuestionID: i,
			Text:       t.value(row, ColumnQuestion),
		})
	}
	return questions, nil
}

// table is a parsed file with its header index.
type table struct {
	columns map[string]int
	rows    [][]string
}

func (t *table) value(row []string, column string) string {
	i := t.columns[column]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readTable parses r and checks the header carries every required column.
func readTable(r io.Reader, required ...string) (*table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := encsv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{columns: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidInput, col)
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
