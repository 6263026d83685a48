package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ChatConfig struct {
	HistoryPageSize int `toml:"history_page_size"`
	OlderPageSize   int `toml:"older_page_size"`
	ContextWindow   int `toml:"context_window"`
}

type UserConfig struct {
	API      APIConfig  `toml:"api"`
	Chat     ChatConfig `toml:"chat"`
	Products struct {
		PageSize int `toml:"page_size"`
	} `toml:"products"`
}

// Config is the resolved runtime configuration
type Config struct {
	DataDirectory   string
	APIBaseURL      string
	TimeoutSeconds  int
	HistoryPageSize int
	OlderPageSize   int
	ContextWindow   int
	ProductPageSize int
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if baseURL := os.Getenv("SHOPCHAT_API_URL"); baseURL != "" {
		c.APIBaseURL = baseURL
	}
	if dataDir := os.Getenv("SHOPCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("SHOPCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain sensitive debug info)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (SHOPCHAT_DEBUG=%s) ===", os.Getenv("SHOPCHAT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load resolves configuration from settings.toml, the user config file in the
// data directory, and environment overrides, creating defaults on first run.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:   GetDefaultDataDir(),
		APIBaseURL:      "http://localhost:8000/api/v1",
		TimeoutSeconds:  10,
		HistoryPageSize: 50,
		OlderPageSize:   20,
		ContextWindow:   5,
		ProductPageSize: 10,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.API.BaseURL != "" {
		cfg.APIBaseURL = userCfg.API.BaseURL
	}
	if userCfg.API.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = userCfg.API.TimeoutSeconds
	}
	if userCfg.Chat.HistoryPageSize > 0 {
		cfg.HistoryPageSize = userCfg.Chat.HistoryPageSize
	}
	if userCfg.Chat.OlderPageSize > 0 {
		cfg.OlderPageSize = userCfg.Chat.OlderPageSize
	}
	if userCfg.Chat.ContextWindow > 0 {
		cfg.ContextWindow = userCfg.Chat.ContextWindow
	}
	if userCfg.Products.PageSize > 0 {
		cfg.ProductPageSize = userCfg.Products.PageSize
	}

	// Env override beats the user config file as well
	cfg.applyEnvOverrides()

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
