// Package csv writes benchmark results as two comma-separated files,
// books.csv and questions.csv, each with a leading unnamed row index column.
package csv

import (
	"context"
	encsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/qabench/internal/adapters/driven/results"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ResultWriter = (*Writer)(nil)

// Writer persists results as CSV.
type Writer struct{}

// NewWriter creates a CSV result writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Format returns "csv".
func (w *Writer) Format() string {
	return string(domain.OutputFormatCSV)
}

// Write creates dir and writes both files, replacing earlier ones.
func (w *Writer) Write(ctx context.Context, dir string, res *domain.RunResults) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	books := res.Books()
	bookRows := make([][]string, len(books))
	for i, b := range books {
		bookRows[i] = results.BookRow(b)
	}
	if err := writeFile(filepath.Join(dir, results.BooksName+".csv"), results.BookColumns, bookRows); err != nil {
		return err
	}

	questions := res.Questions()
	questionRows := make([][]string, len(questions))
	for i, q := range questions {
		questionRows[i] = results.QuestionRow(q)
	}
	return writeFile(filepath.Join(dir, results.QuestionsName+".csv"), results.QuestionColumns, questionRows)
}

// writeFile writes header and rows, prefixing each with the row index.
func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	cw := encsv.NewWriter(f)
	if err := cw.Write(append([]string{""}, header...)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	for i, row := range rows {
		if err := cw.Write(append([]string{strconv.Itoa(i)}, row...)); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
