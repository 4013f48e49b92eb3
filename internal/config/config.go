package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
)

// EnvConfigPath overrides the config file search.
const EnvConfigPath = "COPYD_CONFIG"

// DefaultSearchPaths are tried in order when no path is given.
var DefaultSearchPaths = []string{
	"/etc/copyd/config.yaml",
	"config.yaml",
	"config.toml",
}

type Config struct {
	Daemon   DaemonConfig   `yaml:"daemon" toml:"daemon"`
	Copy     CopyConfig     `yaml:"copy" toml:"copy"`
	Jobs     JobsConfig     `yaml:"jobs" toml:"jobs"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	API      APIConfig      `yaml:"api" toml:"api"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Client   ClientConfig   `yaml:"client" toml:"client"`

	mu       sync.RWMutex
	watchers []chan<- struct{}
}

type DaemonConfig struct {
	Network         string        `yaml:"network" toml:"network"`
	Address         string        `yaml:"address" toml:"address"`
	SocketMode      uint32        `yaml:"socket_mode" toml:"socket_mode"`
	MaxRequestSize  string        `yaml:"max_request_size" toml:"max_request_size"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

type CopyConfig struct {
	BufferSize     string `yaml:"buffer_size" toml:"buffer_size"`
	MaxThreads     int    `yaml:"max_threads" toml:"max_threads"`
	BandwidthLimit string `yaml:"bandwidth_limit" toml:"bandwidth_limit"`
}

type JobsConfig struct {
	ReapAfter        time.Duration `yaml:"reap_after" toml:"reap_after"`
	ReapInterval     time.Duration `yaml:"reap_interval" toml:"reap_interval"`
	PersistInterval  time.Duration `yaml:"persist_interval" toml:"persist_interval"`
	HistoryRetention time.Duration `yaml:"history_retention" toml:"history_retention"`
	MinFreeSpace     string        `yaml:"min_free_space" toml:"min_free_space"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type APIConfig struct {
	Enabled       bool          `yaml:"enabled" toml:"enabled"`
	Host          string        `yaml:"host" toml:"host"`
	Port          int           `yaml:"port" toml:"port"`
	WatchInterval time.Duration `yaml:"watch_interval" toml:"watch_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

type ClientConfig struct {
	Network         string        `yaml:"network" toml:"network"`
	Address         string        `yaml:"address" toml:"address"`
	Timeout         time.Duration `yaml:"timeout" toml:"timeout"`
	MaxResponseSize string        `yaml:"max_response_size" toml:"max_response_size"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// ResolvePath picks the config file to load: the explicit path, then
// $COPYD_CONFIG, then the first existing default search path.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	for _, path := range DefaultSearchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads, expands, validates and returns the configuration at configPath
// and starts watching it for changes. An empty path yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if configPath != "" {
		go cfg.watchConfig(configPath)
	}
	return cfg, nil
}

// Read loads the configuration without creating directories or watching
// the file. Clients use it to find the daemon address.
func Read(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}
	return loadConfig(configPath)
}

func loadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	content := os.ExpandEnv(string(data))

	var config Config
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		if _, err := toml.Decode(content, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Daemon.Network == "" {
		c.Daemon.Network = "tcp"
	}
	if c.Daemon.Address == "" {
		c.Daemon.Address = "127.0.0.1:8080"
	}
	if c.Daemon.SocketMode == 0 {
		c.Daemon.SocketMode = 0o660
	}
	if c.Daemon.MaxRequestSize == "" {
		c.Daemon.MaxRequestSize = "64KiB"
	}
	if c.Daemon.ReadTimeout == 0 {
		c.Daemon.ReadTimeout = 10 * time.Second
	}
	if c.Daemon.ShutdownTimeout == 0 {
		c.Daemon.ShutdownTimeout = 30 * time.Second
	}

	if c.Copy.BufferSize == "" {
		c.Copy.BufferSize = "1MiB"
	}
	if c.Copy.MaxThreads == 0 {
		c.Copy.MaxThreads = 4
	}

	if c.Jobs.ReapAfter == 0 {
		c.Jobs.ReapAfter = time.Hour
	}
	if c.Jobs.ReapInterval == 0 {
		c.Jobs.ReapInterval = time.Minute
	}
	if c.Jobs.PersistInterval == 0 {
		c.Jobs.PersistInterval = 5 * time.Second
	}
	if c.Jobs.HistoryRetention == 0 {
		c.Jobs.HistoryRetention = 7 * 24 * time.Hour
	}
	if c.Jobs.MinFreeSpace == "" {
		c.Jobs.MinFreeSpace = "100MB"
	}

	if c.Database.Path == "" {
		c.Database.Path = "./data/copyd.db"
	}

	if c.API.Host == "" {
		c.API.Host = "127.0.0.1"
	}
	if c.API.Port == 0 {
		c.API.Port = 8081
	}
	if c.API.WatchInterval == 0 {
		c.API.WatchInterval = time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.Client.Network == "" {
		c.Client.Network = c.Daemon.Network
	}
	if c.Client.Address == "" {
		c.Client.Address = c.Daemon.Address
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 30 * time.Second
	}
	if c.Client.MaxResponseSize == "" {
		c.Client.MaxResponseSize = "16MiB"
	}
}

func (c *Config) validate() error {
	if err := validateNetwork("daemon", c.Daemon.Network, c.Daemon.Address); err != nil {
		return err
	}
	if err := validateNetwork("client", c.Client.Network, c.Client.Address); err != nil {
		return err
	}

	if c.Copy.MaxThreads <= 0 {
		return fmt.Errorf("max_threads must be greater than 0")
	}

	sizes := map[string]string{
		"daemon.max_request_size":  c.Daemon.MaxRequestSize,
		"copy.buffer_size":         c.Copy.BufferSize,
		"jobs.min_free_space":      c.Jobs.MinFreeSpace,
		"client.max_response_size": c.Client.MaxResponseSize,
	}
	for name, value := range sizes {
		if _, err := ParseSize(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if n, _ := ParseSize(c.Copy.BufferSize); n <= 0 {
		return fmt.Errorf("buffer_size must be greater than 0")
	}
	if c.Copy.BandwidthLimit != "" {
		if _, err := ParseSize(c.Copy.BandwidthLimit); err != nil {
			return fmt.Errorf("invalid copy.bandwidth_limit: %w", err)
		}
	}

	if c.Jobs.ReapAfter < 0 {
		return fmt.Errorf("reap_after cannot be negative")
	}
	if c.Jobs.ReapInterval <= 0 || c.Jobs.PersistInterval <= 0 {
		return fmt.Errorf("reap_interval and persist_interval must be greater than 0")
	}

	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > 65535) {
		return fmt.Errorf("invalid api port: %d", c.API.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	return nil
}

func validateNetwork(section, network, address string) error {
	switch network {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		return fmt.Errorf("invalid %s network: %s", section, network)
	}
	if address == "" {
		return fmt.Errorf("%s address is required", section)
	}
	return nil
}

func (c *Config) ensureDirectories() error {
	var dirs []string

	if c.Database.Path != ":memory:" {
		dirs = append(dirs, filepath.Dir(c.Database.Path))
	}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ParseSize parses a human size such as "100MB" or "1MiB" into bytes.
// Plain numbers are taken as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return units.RAMInBytes(s)
}

// WatchForChanges registers a channel to receive notifications when config changes
func (c *Config) WatchForChanges() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	c.watchers = append(c.watchers, ch)
	return ch
}

func (c *Config) watchConfig(configPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create config watcher", "error", err)
		return
	}
	defer watcher.Close()

	configDir := filepath.Dir(configPath)
	if err := watcher.Add(configDir); err != nil {
		slog.Error("failed to watch config directory", "error", err, "path", configDir)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) == filepath.Base(configPath) &&
				(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				slog.Info("config file changed, reloading", "file", configPath)

				// Editors often write in several steps.
				time.Sleep(100 * time.Millisecond)

				if err := c.reload(configPath); err != nil {
					slog.Error("failed to reload config", "error", err)
				} else {
					c.notifyWatchers()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

// reload swaps in the settings that can change at runtime. Listener
// addresses and the database path need a restart.
func (c *Config) reload(configPath string) error {
	newConfig, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Copy = newConfig.Copy
	c.Jobs = newConfig.Jobs
	c.Logging = newConfig.Logging
	c.Client = newConfig.Client
	c.API.WatchInterval = newConfig.API.WatchInterval

	slog.Info("configuration reloaded successfully")
	return nil
}

func (c *Config) notifyWatchers() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, watcher := range c.watchers {
		select {
		case watcher <- struct{}{}:
		default:
		}
	}
}

// GetDaemon returns a copy of the daemon configuration
func (c *Config) GetDaemon() DaemonConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Daemon
}

// GetCopy returns a copy of the copy configuration
func (c *Config) GetCopy() CopyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Copy
}

// GetJobs returns a copy of the jobs configuration
func (c *Config) GetJobs() JobsConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Jobs
}

func (c *Config) GetDatabase() DatabaseConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Database
}

func (c *Config) GetAPI() APIConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.API
}

// GetLogging returns a copy of the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logging
}

func (c *Config) GetClient() ClientConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Client
}

// BufferBytes returns copy.buffer_size in bytes.
func (c CopyConfig) BufferBytes() int {
	n, err := ParseSize(c.BufferSize)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return int(n)
}

// BandwidthBytes returns copy.bandwidth_limit in bytes per second, 0 meaning unlimited.
func (c CopyConfig) BandwidthBytes() int64 {
	n, _ := ParseSize(c.BandwidthLimit)
	return n
}

// MinFreeBytes returns jobs.min_free_space in bytes.
func (c JobsConfig) MinFreeBytes() int64 {
	n, _ := ParseSize(c.MinFreeSpace)
	return n
}

func (c DaemonConfig) MaxRequestBytes() int64 {
	n, _ := ParseSize(c.MaxRequestSize)
	return n
}

func (c ClientConfig) MaxResponseBytes() int64 {
	n, _ := ParseSize(c.MaxResponseSize)
	return n
}
