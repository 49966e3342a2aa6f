// Package spreadsheet moves tasks in and out of .xlsx workbooks.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/rpggio/taskboard/internal/domain/task"
)

// Column headers, in export order.
const (
	ColumnProject        = "Project"
	ColumnSubLine        = "Sub Line"
	ColumnTask           = "Task"
	ColumnStatus         = "Status"
	ColumnCompletionTime = "Completion Time"
)

// SheetName is the sheet written by Export.
const SheetName = "Tasks"

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	exportColumns   = []string{ColumnProject, ColumnSubLine, ColumnTask, ColumnStatus, ColumnCompletionTime}
	requiredColumns = []string{ColumnProject, ColumnSubLine, ColumnTask}
)

// TaskLister reads the registry.
type TaskLister interface {
	List(ctx context.Context) ([]task.Task, error)
}

// TaskCreator writes to the registry.
type TaskCreator interface {
	CreateBatch(ctx context.Context, reqs []task.CreateRequest) ([]*task.Task, error)
}

// ImportError reports why an import was rejected. Row is the 1-based sheet
// row (0 when the failure is not tied to a row).
type ImportError struct {
	Row    int
	Column string
	Err    error
}

func (e *ImportError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("import failed at row %d, column %q: %v", e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("import failed at row %d: %v", e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("import failed: column %q: %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("import failed: %v", e.Err)
	}
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
