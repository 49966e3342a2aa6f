package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/xuri/excelize/v2"
)

// ErrCellValue indicates a task field that a cell cannot hold verbatim.
var ErrCellValue = errors.New("value does not fit a cell")

// Exporter serializes the registry into a workbook.
type Exporter struct {
	tasks TaskLister
}

// NewExporter creates an Exporter reading from tasks.
func NewExporter(tasks TaskLister) *Exporter {
	return &Exporter{tasks: tasks}
}

// Export returns a complete .xlsx workbook holding every task in ID order.
func (e *Exporter) Export(ctx context.Context) ([]byte, error) {
	tasks, err := e.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeRow(f, 1, toCells(exportColumns)); err != nil {
		return nil, err
	}
	for i, t := range tasks {
		if err := checkCells(t); err != nil {
			return nil, err
		}
		if err := writeRow(f, i+2, exportRow(t)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(t task.Task) []any {
	completionTime := ""
	if t.CompletionTime != nil {
		completionTime = t.CompletionTime.Local().Format(task.CompletionLayout)
	}
	return []any{t.Project, t.SubLine, t.Name, t.Status(), completionTime}
}

// checkCells refuses fields that excelize would truncate or rewrite.
func checkCells(t task.Task) error {
	for _, field := range []struct{ column, value string }{
		{ColumnProject, t.Project},
		{ColumnSubLine, t.SubLine},
		{ColumnTask, t.Name},
	} {
		if utf8.RuneCountInString(field.value) > excelize.TotalCellChars ||
			!utf8.ValidString(field.value) ||
			strings.IndexFunc(field.value, func(r rune) bool { return !task.IsCellRune(r) }) >= 0 {
			return fmt.Errorf("task %d, column %q: %w", t.ID, field.column, ErrCellValue)
		}
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
