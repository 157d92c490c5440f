// Package xlsx writes benchmark results as a single workbook with one sheet
// per dataset.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/qabench/internal/adapters/driven/results"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ResultWriter = (*Writer)(nil)

// FileName is the workbook written under the output directory.
const FileName = "results.xlsx"

// Writer persists results as an Excel workbook.
type Writer struct{}

// NewWriter creates an xlsx result writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Format returns "xlsx".
func (w *Writer) Format() string {
	return string(domain.OutputFormatXLSX)
}

// Write creates dir and writes the workbook, replacing an earlier one.
func (w *Writer) Write(ctx context.Context, dir string, res *domain.RunResults) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), results.BooksName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(results.QuestionsName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	books := res.Books()
	bookRows := make([][]any, len(books))
	for i, b := range books {
		bookRows[i] = []any{b.DocumentID, b.Title, b.NumDocuments, b.IndexBuildSeconds}
	}
	if err := writeSheet(f, results.BooksName, results.BookColumns, bookRows); err != nil {
		return err
	}

	questions := res.Questions()
	questionRows := make([][]any, len(questions))
	for i, q := range questions {
		questionRows[i] = []any{
			q.DocumentID, q.QuestionID, q.Question, q.Answer,
			q.Probability, q.Score, q.TopKRetriever, q.AnswerSeconds,
		}
	}
	if err := writeSheet(f, results.QuestionsName, results.QuestionColumns, questionRows); err != nil {
		return err
	}

	if err := f.SaveAs(filepath.Join(dir, FileName)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeSheet writes the header in row 1 and the records below it.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}
