package transport

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/qr"
	"github.com/rpggio/taskboard/internal/spreadsheet"
)

type indexPage struct {
	Tasks    []task.Task
	Activity []activity.ActivityEntry
}

type confirmedPage struct {
	Task *task.Task
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.cfg.Tasks.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page := indexPage{Tasks: tasks}
	if s.cfg.Activity != nil {
		entries, err := s.cfg.Activity.GetRecentActivity(r.Context(), activity.ListActivityOptions{Limit: recentActivityLimit})
		if err != nil {
			s.cfg.Logger.Warn("load recent activity", "error", err)
		}
		page.Activity = entries
	}

	s.render(w, r, "index", page)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := s.cfg.Tasks.Create(r.Context(), task.CreateRequest{
		Name:    r.PostForm.Get("task_name"),
		Project: r.PostForm.Get("project"),
		SubLine: r.PostForm.Get("sub_line"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	t, err := s.cfg.Tasks.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "edit", t)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := task.UpdateRequest{ID: id}
	if name := r.PostForm.Get("task_name"); strings.TrimSpace(name) != "" {
		req.Name = &name
	}
	if _, present := r.PostForm["project"]; present {
		project := r.PostForm.Get("project")
		req.Project = &project
	}
	if _, present := r.PostForm["sub_line"]; present {
		subLine := r.PostForm.Get("sub_line")
		req.SubLine = &subLine
	}

	if _, err := s.cfg.Tasks.Update(r.Context(), req); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil {
		if err := s.cfg.Tasks.Delete(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	t, err := s.cfg.Tasks.Confirm(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "confirmed", confirmedPage{Task: t})
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	link, err := s.cfg.Tasks.ConfirmationURL(r.Context(), id, s.baseURL(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	size := s.cfg.QRSize
	if size == 0 {
		size = qr.DefaultSize
	}
	png, err := qr.PNG(link, size)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("render qr for task %d: %w", id, err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Exporter.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, r, errNoFile)
		return
	}
	defer file.Close()
	if header.Filename == "" {
		s.writeError(w, r, errNoFile)
		return
	}

	added, err := s.importStaged(r.Context(), file, header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.cfg.Logger.Info("tasks imported", "file", header.Filename, "count", added)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// taskID parses the {id} path parameter. Ids that cannot name a task are reported as not found.
func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, task.ErrTaskNotFound)
		return 0, false
	}
	return id, true
}

// baseURL is the externally visible root of the server, with a trailing slash.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.PublicURL != "" {
		return s.cfg.PublicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host + "/"
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.writeError(w, r, fmt.Errorf("render %s page: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
