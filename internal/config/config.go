package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	// URL takes precedence over the individual fields when set.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type ServerConfig struct {
	// Port for the health/metrics sidecar, and for the MCP endpoint
	// when the transport is http.
	Port string `yaml:"port"`
}

type MCPConfig struct {
	// Transport is "stdio" or "http".
	Transport string `yaml:"transport"`
	// Path of the MCP endpoint when serving over http.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	MCP    MCPConfig    `yaml:"mcp"`
	Log    LogConfig    `yaml:"log"`
}

// DSN renders the postgres connection string.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)
}

func defaults() *Config {
	return &Config{
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "mcp_user",
			Password: "mcp_password",
			Name:     "mcp_tasks",
		},
		Server: ServerConfig{Port: "8080"},
		MCP:    MCPConfig{Transport: "stdio", Path: "/mcp"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the yaml config at path (optional) and applies environment
// variable overrides on top. A missing file is not an error; env vars
// alone can configure the server.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	overrideFromEnv(cfg)

	if cfg.MCP.Transport != "stdio" && cfg.MCP.Transport != "http" {
		return nil, fmt.Errorf("unsupported mcp transport %q (must be stdio or http)", cfg.MCP.Transport)
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DB.URL = url
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if transport := os.Getenv("MCP_TRANSPORT"); transport != "" {
		cfg.MCP.Transport = transport
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}
