package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultMaxUploadBytes = 10 << 20

func (s *Server) maxUploadBytes() int64 {
	if s.cfg.MaxUploadBytes > 0 {
		return s.cfg.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// importStaged copies the upload to a uniquely named staging file, imports it, and removes it.
func (s *Server) importStaged(ctx context.Context, src io.Reader, filename string) (int, error) {
	path, err := s.stage(src, filename)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.cfg.Logger.Warn("remove staged upload", "path", path, "error", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()

	return s.cfg.Importer.Import(ctx, f)
}

func (s *Server) stage(src io.Reader, filename string) (string, error) {
	dir := s.cfg.StagingDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "taskboard-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create staged upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write staged upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close staged upload: %w", err)
	}
	return path, nil
}
