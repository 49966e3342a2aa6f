package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/taskboard/internal/config"
	"github.com/rpggio/taskboard/internal/domain/activity"
	"github.com/rpggio/taskboard/internal/domain/task"
	"github.com/rpggio/taskboard/internal/mcp"
	"github.com/rpggio/taskboard/internal/memory"
	"github.com/rpggio/taskboard/internal/spreadsheet"
	"github.com/rpggio/taskboard/internal/sqlite"
	"github.com/rpggio/taskboard/internal/transport"
)

var demoTasks = []task.CreateRequest{
	{Name: "Task 1: Clean the kitchen"},
	{Name: "Task 2: Take out the trash"},
	{Name: "Task 3: Water the plants"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, a.mcpServer)
	} else {
		runHTTPMode(logger, a.handler, cfg.Server.Host, cfg.Server.Port)
	}
}

// app holds the wired services for one process.
type app struct {
	tasks     *task.Service
	mcpServer *sdkmcp.Server
	handler   http.Handler
	closers   []io.Closer
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	taskRepo, activityRepo, err := a.openStore(cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	activitySvc := activity.NewService(activityRepo, logger)
	tasks := task.NewService(taskRepo, activitySvc, logger)
	a.tasks = tasks

	if cfg.Seed {
		seeded, err := tasks.Seed(ctx, demoTasks)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("seed demo tasks: %w", err)
		}
		if seeded {
			logger.Info("seeded demo tasks", "count", len(demoTasks))
		}
	}

	a.mcpServer = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tasks:    tasks,
			Activity: activitySvc,
		},
		PublicURL: cfg.Server.PublicURL,
		Logger:    logger,
	})

	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		mcpHandler = mcp.NewHTTPHandler(a.mcpServer)
	}

	a.handler = transport.NewServer(transport.Config{
		Tasks:          tasks,
		Activity:       activitySvc,
		Importer:       spreadsheet.NewImporter(tasks),
		Exporter:       spreadsheet.NewExporter(tasks),
		PublicURL:      cfg.Server.PublicURL,
		QRSize:         cfg.QR.Size,
		StagingDir:     cfg.Upload.StagingDir,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		MCP:            mcpHandler,
		Logger:         logger,
	})

	return a, nil
}

func (a *app) openStore(cfg config.StoreConfig) (task.Repository, activity.Repository, error) {
	if cfg.Driver != "sqlite" {
		return memory.NewTaskRepository(), memory.NewActivityRepository(), nil
	}

	if err := ensureDBDir(cfg.Path); err != nil {
		return nil, nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, db)

	if err := db.RunMigrations(); err != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlite.NewTaskRepository(db), sqlite.NewActivityRepository(db), nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		logger.Error("stdio server error", "error", err)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
