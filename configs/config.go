package configs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/admina-mcp/admina-mcp/internal/adapter/outbound/admina"
	"github.com/admina-mcp/admina-mcp/internal/adapter/outbound/github"
	"github.com/admina-mcp/admina-mcp/internal/domain"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "admina"

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	BaseURL       string                `yaml:"base_url"`
	ArrayEncoding domain.ArrayEncodings `yaml:"array_encoding"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "ADMINA_", overriding file settings.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	BaseURL           string        `envconfig:"BASE_URL"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`

	// Array query encoding. The env value replaces the file default; per-tool
	// overrides only come from the file.
	ArrayEncoding  domain.ArrayEncoding  `envconfig:"ARRAY_ENCODING"`
	ArrayEncodings domain.ArrayEncodings `ignored:"true"`

	ListenAddr               string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr                string        `envconfig:"ADMIN_ADDR" default:":8081"`
	AdminToken               string        `envconfig:"ADMIN_TOKEN"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerIdleTimeout        time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile                  string        `envconfig:"LOG_FILE" default:"/tmp/admina-mcp.log"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ClientOptions returns the admina client options derived from the configuration.
func (c *Config) ClientOptions(logger *slog.Logger) []admina.Option {
	return []admina.Option{
		admina.WithBaseURL(c.BaseURL),
		admina.WithTimeout(c.HTTPClientTimeout),
		admina.WithLogger(logger),
	}
}

// Load loads configuration from environment variables, then from the YAML file
// named by ADMINA_CONFIG_FILE if any, which may be a github:// URL.
// Environment values win over file values.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	fileCfg := FileConfig{}
	if cfg.ConfigFilePath != "" {
		yamlFile, err := readConfigFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
		}
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fileCfg.BaseURL
	}

	cfg.ArrayEncodings = fileCfg.ArrayEncoding
	if cfg.ArrayEncoding != domain.ArrayDefault {
		cfg.ArrayEncodings.Default = cfg.ArrayEncoding
	}
	if cfg.ArrayEncodings.Default == domain.ArrayDefault {
		cfg.ArrayEncodings.Default = domain.ArrayRepeat
	}
	cfg.ArrayEncoding = cfg.ArrayEncodings.Default

	return &cfg, nil
}

// readConfigFile reads a local file, or a github://owner/repo/path[@ref] file
// through the gh CLI.
func readConfigFile(path string) ([]byte, error) {
	if github.IsURL(path) {
		content, err := github.NewSource(nil).Fetch(context.Background(), path)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded configuration from GitHub.", "url", path)
		return content, nil
	}
	return os.ReadFile(path)
}

// ErrAdminTokenRequired is returned by ValidateAdmin when the admin server is
// enabled without a token.
var ErrAdminTokenRequired = errors.New("ADMINA_ADMIN_TOKEN is required when the admin server is enabled (set ADMINA_ADMIN_ADDR to empty to disable it)")

// ValidateAdmin checks the admin server settings. The admin routes run tools
// with the Admina credentials, so they are never served without a token.
func (c *Config) ValidateAdmin() error {
	if c.AdminAddr != "" && c.AdminToken == "" {
		return ErrAdminTokenRequired
	}
	return nil
}

// LoadCredentials reads the Admina credentials from the environment. It is
// evaluated lazily so a server can start before credentials are configured.
func LoadCredentials() (admina.Credentials, error) {
	var creds struct {
		APIKey         string `envconfig:"API_KEY"`
		OrganizationID string `envconfig:"ORGANIZATION_ID"`
	}
	if err := envconfig.Process(EnvPrefix, &creds); err != nil {
		return admina.Credentials{}, fmt.Errorf("failed to process environment variables: %w", err)
	}

	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "ADMINA_API_KEY")
	}
	if creds.OrganizationID == "" {
		missing = append(missing, "ADMINA_ORGANIZATION_ID")
	}
	switch len(missing) {
	case 0:
		return admina.Credentials{APIKey: creds.APIKey, OrganizationID: creds.OrganizationID}, nil
	case 1:
		return admina.Credentials{}, fmt.Errorf("%s is required", missing[0])
	default:
		return admina.Credentials{}, fmt.Errorf("%s are required", strings.Join(missing, " and "))
	}
}
