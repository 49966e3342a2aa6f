package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/spreadsheet"
)

var errNoFile = errors.New("no file uploaded")

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var importErr *spreadsheet.ImportError
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.As(err, &importErr), errors.Is(err, task.ErrInvalidInput), errors.Is(err, errNoFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.cfg.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
