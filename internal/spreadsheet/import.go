package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoSheet indicates the workbook holds no sheets.
	ErrNoSheet = errors.New("workbook has no sheets")
	// ErrNoHeader indicates the first sheet is empty.
	ErrNoHeader = errors.New("missing header row")
	// ErrMissingColumn indicates a required header is absent.
	ErrMissingColumn = errors.New("required column missing")
	// ErrInvalidStatus indicates a Status cell that is neither Completed nor Pending.
	ErrInvalidStatus = errors.New("invalid status")
)

// Importer decodes a workbook into tasks and commits them all at once.
type Importer struct {
	tasks    TaskCreator
	location *time.Location
}

// NewImporter creates an Importer writing to tasks. Completion times are
// read in the local time zone.
func NewImporter(tasks TaskCreator) *Importer {
	return &Importer{tasks: tasks, location: time.Local}
}

// Import reads the first sheet of an .xlsx workbook and adds one task per
// non-blank row. Either every row is added or none is; the returned error is
// always an *ImportError.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	reqs, err := i.Parse(r)
	if err != nil {
		return 0, err
	}

	created, err := i.tasks.CreateBatch(ctx, reqs)
	if err != nil {
		return 0, &ImportError{Err: err}
	}
	return len(created), nil
}

// Parse decodes the workbook without touching the registry.
func (i *Importer) Parse(r io.Reader) ([]task.CreateRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ImportError{Err: fmt.Errorf("reading workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ImportError{Err: ErrNoSheet}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ImportError{Err: fmt.Errorf("reading sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &ImportError{Row: 1, Err: ErrNoHeader}
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var reqs []task.CreateRequest
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		req, err := i.parseRow(cols, row, n+2)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

type columns map[string]int

func (c columns) value(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func mapHeader(header []string) (columns, error) {
	cols := make(columns)
	for idx, cell := range header {
		for _, name := range exportColumns {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				if _, dup := cols[name]; !dup {
					cols[name] = idx
				}
			}
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &ImportError{Row: 1, Column: name, Err: ErrMissingColumn}
		}
	}
	return cols, nil
}

func (i *Importer) parseRow(cols columns, row []string, rowNum int) (task.CreateRequest, error) {
	req := task.CreateRequest{
		Project: cols.value(row, ColumnProject),
		SubLine: cols.value(row, ColumnSubLine),
		Name:    cols.value(row, ColumnTask),
	}
	if err := task.ValidateCreateInput(req); err != nil {
		return req, &ImportError{Row: rowNum, Column: ColumnTask, Err: err}
	}

	switch status := cols.value(row, ColumnStatus); {
	case status == "" || strings.EqualFold(status, task.StatusPending):
	case strings.EqualFold(status, task.StatusCompleted):
		req.Completed = true
	default:
		return req, &ImportError{Row: rowNum, Column: ColumnStatus, Err: fmt.Errorf("%w: %q", ErrInvalidStatus, status)}
	}

	if raw := cols.value(row, ColumnCompletionTime); raw != "" && req.Completed {
		at, err := time.ParseInLocation(task.CompletionLayout, raw, i.location)
		if err != nil {
			return req, &ImportError{Row: rowNum, Column: ColumnCompletionTime, Err: err}
		}
		req.CompletionTime = &at
	}
	return req, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
