package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath = "~/.config/eyeballr/config.toml"

	defaultPollInterval     = 2 * time.Second
	defaultCompleteAttempts = 20
	defaultRequestTimeout   = 30 * time.Second
	defaultUserAgent        = "eyeballr-cli"

	defaultListen        = "127.0.0.1:8080"
	defaultMaxImageSize  = 10 << 20
	maxImageSizeLimit    = 512 << 20
	defaultReadyAfter    = 1
	defaultCompleteAfter = 1
	defaultMinMergeFiles = 1
	defaultTicketTTL     = 10 * time.Minute
)

// Client holds the upload command settings.
type Client struct {
	PollInterval     time.Duration
	CompleteAttempts int
	ReadyTimeout     time.Duration
	RequestTimeout   time.Duration
	UserAgent        string
	Insecure         bool
	UID              string
	Lenient          bool
}

// Server holds the development server settings.
type Server struct {
	Listen        string
	MaxImageSize  int64
	ReadyAfter    int
	CompleteAfter int
	MinMergeFiles int
	TicketTTL     time.Duration
	SaveDir       string
}

type Config struct {
	Client Client
	Server Server
}

func Default() Config {
	return Config{
		Client: Client{
			PollInterval:     defaultPollInterval,
			CompleteAttempts: defaultCompleteAttempts,
			RequestTimeout:   defaultRequestTimeout,
			UserAgent:        defaultUserAgent,
		},
		Server: Server{
			Listen:        defaultListen,
			MaxImageSize:  defaultMaxImageSize,
			ReadyAfter:    defaultReadyAfter,
			CompleteAfter: defaultCompleteAfter,
			MinMergeFiles: defaultMinMergeFiles,
			TicketTTL:     defaultTicketTTL,
		},
	}
}

type rawConfig struct {
	Client struct {
		PollInterval     string `toml:"poll_interval"`
		CompleteAttempts int    `toml:"complete_attempts"`
		ReadyTimeout     string `toml:"ready_timeout"`
		RequestTimeout   string `toml:"request_timeout"`
		UserAgent        string `toml:"user_agent"`
		Insecure         bool   `toml:"insecure"`
		UID              string `toml:"uid"`
		Lenient          bool   `toml:"lenient"`
	} `toml:"client"`
	Server struct {
		Listen        string `toml:"listen"`
		MaxImageSize  int64  `toml:"max_image_size"`
		ReadyAfter    int    `toml:"ready_after"`
		CompleteAfter int    `toml:"complete_after"`
		MinMergeFiles int    `toml:"min_merge_files"`
		TicketTTL     string `toml:"ticket_ttl"`
		SaveDir       string `toml:"save_dir"`
	} `toml:"server"`
}

// Load parses the config at path, or the default location when path is empty.
// A missing file is not an error and yields Default().
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	return parse(file)
}

func parse(r io.Reader) (Config, error) {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	c := raw.Client
	if err := setDuration(&cfg.Client.PollInterval, "client.poll_interval", c.PollInterval); err != nil {
		return Config{}, err
	}
	if err := setDuration(&cfg.Client.ReadyTimeout, "client.ready_timeout", c.ReadyTimeout); err != nil {
		return Config{}, err
	}
	if err := setDuration(&cfg.Client.RequestTimeout, "client.request_timeout", c.RequestTimeout); err != nil {
		return Config{}, err
	}
	if c.CompleteAttempts > 0 {
		cfg.Client.CompleteAttempts = c.CompleteAttempts
	}
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		cfg.Client.UserAgent = ua
	}
	cfg.Client.Insecure = c.Insecure
	cfg.Client.UID = strings.TrimSpace(c.UID)
	cfg.Client.Lenient = c.Lenient

	s := raw.Server
	if listen := strings.TrimSpace(s.Listen); listen != "" {
		cfg.Server.Listen = listen
	}
	if s.MaxImageSize > maxImageSizeLimit {
		return Config{}, fmt.Errorf("parse server.max_image_size: %d exceeds %d", s.MaxImageSize, int64(maxImageSizeLimit))
	}
	if s.MaxImageSize > 0 {
		cfg.Server.MaxImageSize = s.MaxImageSize
	}
	if s.ReadyAfter > 0 {
		cfg.Server.ReadyAfter = s.ReadyAfter
	}
	if s.CompleteAfter > 0 {
		cfg.Server.CompleteAfter = s.CompleteAfter
	}
	if s.MinMergeFiles > 0 {
		cfg.Server.MinMergeFiles = s.MinMergeFiles
	}
	if err := setDuration(&cfg.Server.TicketTTL, "server.ticket_ttl", s.TicketTTL); err != nil {
		return Config{}, err
	}
	if dir := strings.TrimSpace(s.SaveDir); dir != "" {
		cfg.Server.SaveDir = mustExpand(dir)
	}

	return cfg, nil
}

// setDuration leaves dst alone when value is blank.
func setDuration(dst *time.Duration, key string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("parse %s: negative duration %s", key, value)
	}
	*dst = d

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
