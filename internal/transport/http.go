package transport

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
)

// TaskService defines the registry operations the web UI needs.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Get(ctx context.Context, id int64) (*task.Task, error)
	List(ctx context.Context) ([]task.Task, error)
	Update(ctx context.Context, req task.UpdateRequest) (*task.Task, error)
	Delete(ctx context.Context, id int64) error
	Confirm(ctx context.Context, id int64) (*task.Task, error)
	ConfirmationURL(ctx context.Context, id int64, baseURL string) (string, error)
}

// ActivityService lists recent registry activity.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Importer adds tasks from an uploaded workbook.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (int, error)
}

// Exporter renders the registry as a workbook.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// Config wires the HTTP server.
type Config struct {
	Tasks    TaskService
	Activity ActivityService
	Importer Importer
	Exporter Exporter

	// PublicURL overrides the request-derived base of confirmation links.
	PublicURL      string
	QRSize         int
	StagingDir     string
	MaxUploadBytes int64

	// MCP is mounted at /mcp when non-nil.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server serves the task UI.
type Server struct {
	cfg   Config
	pages *template.Template
}

// recentActivityLimit is how many activity entries the index page shows.
const recentActivityLimit = 10

// NewServer creates the router with middleware and all task routes.
func NewServer(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{
		cfg:   cfg,
		pages: template.Must(template.New("pages").Funcs(templateFuncs).Parse(pagesHTML)),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.Get("/", srv.handleIndex)
	r.Post("/add", srv.handleAdd)
	r.Get("/edit/{id}", srv.handleEditForm)
	r.Post("/edit/{id}", srv.handleEdit)
	r.Get("/delete/{id}", srv.handleDelete)
	r.Get("/confirm/{id}", srv.handleConfirm)
	r.Get("/qr/{id}", srv.handleQR)
	r.Post("/upload", srv.handleUpload)
	r.Get("/download", srv.handleDownload)
	r.Get("/health", srv.handleHealth)

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
