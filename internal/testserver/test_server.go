package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/mcp"
	"github.com/rpggio/taskboard/internal/memory"
	"github.com/rpggio/taskboard/internal/spreadsheet"
	"github.com/rpggio/taskboard/internal/sqlite"
	"github.com/rpggio/taskboard/internal/transport"
	"github.com/stretchr/testify/require"
)

// Options selects the backing store and optional surfaces.
type Options struct {
	SQLite    bool
	MCP       bool
	PublicURL string
}

type TestServer struct {
	Server     *httptest.Server
	Tasks      *task.Service
	Activity   *activity.Service
	StagingDir string
}

// New starts the full web stack over an empty registry.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	var (
		taskRepo     task.Repository
		activityRepo activity.Repository
	)
	if opts.SQLite {
		// Each server gets its own shared-cache database, even within one test.
		dsn := fmt.Sprintf("file:%s-%s?mode=memory&cache=shared",
			strings.ReplaceAll(t.Name(), "/", "_"), uuid.NewString())
		db, err := sqlite.New(dsn)
		require.NoError(t, err)
		require.NoError(t, db.RunMigrations())
		t.Cleanup(func() { _ = db.Close() })
		taskRepo = sqlite.NewTaskRepository(db)
		activityRepo = sqlite.NewActivityRepository(db)
	} else {
		taskRepo = memory.NewTaskRepository()
		activityRepo = memory.NewActivityRepository()
	}

	activitySvc := activity.NewService(activityRepo, nil)
	tasks := task.NewService(taskRepo, activitySvc, nil)

	var mcpHandler http.Handler
	if opts.MCP {
		mcpHandler = mcp.NewHTTPHandler(mcp.NewServer(mcp.Config{
			Services:  mcp.Services{Tasks: tasks, Activity: activitySvc},
			PublicURL: opts.PublicURL,
		}))
	}

	stagingDir := t.TempDir()
	server := httptest.NewServer(transport.NewServer(transport.Config{
		Tasks:          tasks,
		Activity:       activitySvc,
		Importer:       spreadsheet.NewImporter(tasks),
		Exporter:       spreadsheet.NewExporter(tasks),
		PublicURL:      opts.PublicURL,
		StagingDir:     stagingDir,
		MaxUploadBytes: 1 << 20,
		MCP:            mcpHandler,
	}))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:     server,
		Tasks:      tasks,
		Activity:   activitySvc,
		StagingDir: stagingDir,
	}
}

// Client returns an HTTP client that does not follow redirects.
func (ts *TestServer) Client() *http.Client {
	client := *ts.Server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &client
}

// URL joins path onto the server root.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
