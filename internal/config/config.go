// Package config loads the settings of pivoctl: the server location, the session
// file and the development service. Settings come from a YAML or TOML file in the
// user's config directory, then from PIVO_* environment variables (a .env file in
// the working directory is honoured).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory under the user config dir holding pivoctl state.
	AppDir = "pivoadmin"
	// DefaultConfigFile is the default name of the config file.
	DefaultConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override, e.g. PIVO_SERVER_URL.
	EnvPrefix = "PIVO"
	// DefaultServerURL is used until a server is configured.
	DefaultServerURL = "http://localhost:5000/api"
	// APIPath is appended to server URLs given without a path.
	APIPath = "/api"
	// DefaultDevListen is the address of `pivoctl dev-server`.
	DefaultDevListen = "127.0.0.1:5000"
	// ConfigFormatVersion is the version written to new config files.
	ConfigFormatVersion = "1.0.0"
)

// formatConstraint accepts config files written by any 1.x release.
var formatConstraint = mustConstraint("^1.0.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Config is the pivoctl configuration.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" toml:"version" ignored:"true" validate:"omitempty,semver"`
	// ServerURL is the API root of the platform, including the /api prefix
	ServerURL string `yaml:"server_url" toml:"server_url" envconfig:"SERVER_URL" validate:"required,http_url"`
	// SessionFile overrides the location of the session file
	SessionFile string `yaml:"session_file,omitempty" toml:"session_file,omitempty" envconfig:"SESSION_FILE"`
	// Timeout bounds every call; zero waits forever
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty" envconfig:"TIMEOUT" validate:"gte=0"`
	// LogLevel is the zerolog level name
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level,omitempty" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	// InsecureSkipVerify disables TLS certificate checks
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty" toml:"insecure_skip_verify,omitempty" envconfig:"INSECURE_SKIP_VERIFY"`

	DevServer DevServer `yaml:"dev_server,omitempty" toml:"dev_server,omitempty" envconfig:"DEV"`
}

// DevServer configures `pivoctl dev-server`.
type DevServer struct {
	Listen         string        `yaml:"listen,omitempty" toml:"listen,omitempty" envconfig:"LISTEN" validate:"omitempty,hostname_port"`
	AdminName      string        `yaml:"admin_name,omitempty" toml:"admin_name,omitempty" envconfig:"ADMIN_NAME"`
	AdminEmail     string        `yaml:"admin_email,omitempty" toml:"admin_email,omitempty" envconfig:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword  string        `yaml:"admin_password,omitempty" toml:"admin_password,omitempty" envconfig:"ADMIN_PASSWORD"`
	AllowedOrigins []string      `yaml:"allowed_origins,omitempty" toml:"allowed_origins,omitempty" envconfig:"ALLOWED_ORIGINS"`
	HandlerTimeout time.Duration `yaml:"handler_timeout,omitempty" toml:"handler_timeout,omitempty" envconfig:"HANDLER_TIMEOUT" validate:"gte=0"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:   ConfigFormatVersion,
		ServerURL: DefaultServerURL,
		DevServer: DevServer{
			Listen:     DefaultDevListen,
			AdminName:  "Administrator",
			AdminEmail: "admin@pivo.local",
		},
	}
}

// GetServerURL returns the API root.
func (cfg *Config) GetServerURL() string {
	return cfg.ServerURL
}

// GetDefaultConfigPath returns the default config file location, e.g.
// ~/.config/pivoadmin/config.yaml on Linux.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, AppDir, DefaultConfigFile), nil
}

// Load reads the config file, applies environment overrides and validates the
// result. A missing file is not an error: the defaults are used.
func Load(file string) (*Config, error) {
	if file == "" {
		var err error
		if file, err = GetDefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	loadDotEnv()

	cfg := Default()
	content, err := os.ReadFile(file)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug().Str("file", file).Msg("no config file, using defaults")
	case err != nil:
		return nil, fmt.Errorf("unable to read config file: %w", err)
	default:
		if err := decode(file, content, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.ServerURL = MorphServer(cfg.ServerURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads .env from the working directory. Variables already set in the
// environment win.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(cwd, ".env")) // no error if .env doesn't exist
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

func decode(file string, content []byte, cfg *Config) error {
	if isTOML(file) {
		_, err := toml.Decode(string(content), cfg)
		return err
	}
	return yaml.Unmarshal(content, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats and the config format version.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Version == "" {
		return nil
	}
	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", cfg.Version, err)
	}
	if !formatConstraint.Check(v) {
		return fmt.Errorf("config version %s is not supported (want %s)", cfg.Version, formatConstraint)
	}
	return nil
}

// WriteConfig writes the configuration to file, as TOML when the file name ends in
// .toml and as YAML otherwise. The file is only readable by the owner.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = ConfigFormatVersion
	}

	var out []byte
	if isTOML(file) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
		out = buf.Bytes()
	} else {
		var err error
		if out, err = yaml.Marshal(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
	}
	if err := os.WriteFile(file, out, 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// MorphServer normalizes a server URL: it adds http:// when no scheme is given,
// drops trailing slashes, and appends /api when the URL has no path.
func MorphServer(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return server
	}
	server = strings.TrimRight(server, "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	rest := server[strings.Index(server, "://")+3:]
	if !strings.Contains(rest, "/") {
		server += APIPath
	}
	return server
}
