package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	MCP       MCPConfig       `yaml:"mcp"`
	Upload    UploadConfig    `yaml:"upload"`
	QR        QRConfig        `yaml:"qr"`
	Seed      bool            `yaml:"seed"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// PublicURL is the base of confirmation links. Empty means derive it from each request.
	PublicURL string `yaml:"public_url"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

type UploadConfig struct {
	StagingDir string `yaml:"staging_dir"`
	MaxBytes   int64  `yaml:"max_bytes"`
}

type QRConfig struct {
	Size int `yaml:"size"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Upload: UploadConfig{
			StagingDir: filepath.Join(os.TempDir(), "taskboard-uploads"),
			MaxBytes:   10 << 20,
		},
		QR: QRConfig{
			Size: 256,
		},
		Seed: true,
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TASKBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("TASKBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TASKBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if publicURL := os.Getenv("TASKBOARD_PUBLIC_URL"); publicURL != "" {
		cfg.Server.PublicURL = publicURL
	}
	if driver := os.Getenv("TASKBOARD_STORE"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dbPath := os.Getenv("TASKBOARD_DB_PATH"); dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if level := os.Getenv("TASKBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TASKBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("TASKBOARD_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("TASKBOARD_MCP_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = v
	}
	if dir := os.Getenv("TASKBOARD_STAGING_DIR"); dir != "" {
		cfg.Upload.StagingDir = dir
	}
	if seed := os.Getenv("TASKBOARD_SEED"); seed != "" {
		v, err := strconv.ParseBool(seed)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_SEED: %w", err)
		}
		cfg.Seed = v
	}
	if sizeStr := os.Getenv("TASKBOARD_QR_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return fmt.Errorf("invalid TASKBOARD_QR_SIZE: %w", err)
		}
		cfg.QR.Size = size
	}
	return nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("invalid store driver %q: want memory or sqlite", c.Store.Driver)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Transport.Mode == "http" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store path is required for sqlite")
	}
	if c.QR.Size < 21 || c.QR.Size > 2048 {
		return fmt.Errorf("invalid qr size %d: want 21..2048", c.QR.Size)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload max bytes %d", c.Upload.MaxBytes)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
