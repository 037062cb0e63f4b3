package config

import (
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	CatalogBaseURL            string        `koanf:"catalog_base_url" default:"https://openlibrary.org"`
	CatalogCoverURL           string        `koanf:"catalog_cover_url" default:"https://covers.openlibrary.org/b/id/%d-%s.jpg"`
	CatalogRequestsPerSecond  float64       `koanf:"catalog_requests_per_second" default:"2"`
	CatalogResultLimit        int           `koanf:"catalog_result_limit" default:"10"`
	CatalogTimeout            time.Duration `koanf:"catalog_timeout" default:"10s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	Hostname                  string        `koanf:"-"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"3000"`
	SortCookieMaxAge          time.Duration `koanf:"sort_cookie_max_age" default:"720h"`
}

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/booknotes.yaml"
)

// New builds the config from struct defaults, then the YAML file named by
// CONFIG_FILE (if it exists), then environment variables. Later sources win.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	known := knownKeys()
	err = k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.Hostname = "test"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
	return cfg
}

func validate(cfg *Config) error {
	missing := []string{}
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, "DatabaseFilePath")
	}
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for _, field := range missing {
		key := toSnakeCase(field)
		names = append(names, strings.ToUpper(key)+" ("+key+")")
	}
	return errors.Errorf("missing required config: %s", strings.Join(names, ", "))
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
