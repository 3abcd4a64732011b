package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/andy/billdraft/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. BILLDRAFT_CURRENCY
const EnvPrefix = "BILLDRAFT_"

var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

type Config struct {
	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	// Issuer block used for new drafts
	Company domain.Company `yaml:"company"`

	// Reactive update timings
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Log LogConfig `yaml:"log"`
}

type InvoiceConfig struct {
	NumberPrefix    string  `yaml:"number_prefix"`                              // Invoice number prefix (e.g., "INV")
	DefaultCurrency string  `yaml:"default_currency" validate:"required,len=3"` // ISO 4217 code
	DefaultTheme    string  `yaml:"default_theme" validate:"required"`          // Built-in theme id
	DefaultVAT      float64 `yaml:"default_vat" validate:"gte=0"`               // VAT percent for new items
	OutputDir       string  `yaml:"output_dir" validate:"required"`             // Directory for generated PDFs
}

type SchedulerConfig struct {
	Debounce    time.Duration `yaml:"debounce" validate:"gte=0"`
	FlushBudget time.Duration `yaml:"flush_budget" validate:"gt=0"`
	CalcBudget  time.Duration `yaml:"calc_budget" validate:"gt=0"`
	Window      int           `yaml:"window" validate:"gt=0"` // Samples kept per metric
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	File   string `yaml:"file"` // Empty logs to stderr
}

// DefaultConfigPath returns ~/.config/billdraft/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "billdraft", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "billdraft", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Invoice: InvoiceConfig{
			NumberPrefix:    "INV",
			DefaultCurrency: domain.DefaultCurrency,
			DefaultTheme:    domain.DefaultTheme,
			DefaultVAT:      0,
			OutputDir:       filepath.Join(homeDir, ".config", "billdraft", "invoices"),
		},
		Scheduler: SchedulerConfig{
			Debounce:    16 * time.Millisecond,
			FlushBudget: 50 * time.Millisecond,
			CalcBudget:  100 * time.Millisecond,
			Window:      100,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// BILLDRAFT_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads an optional .env from the working directory, then the default config path
func LoadDefault() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(DefaultConfigPath())
}

// Validate checks the config values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the invoice output directory
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.Invoice.OutputDir, 0755)
}

// InvoiceNumber formats the n-th invoice number, e.g. "INV-0007"
func (c *InvoiceConfig) InvoiceNumber(n int) string {
	if c.NumberPrefix == "" {
		return fmt.Sprintf("%04d", n)
	}
	return fmt.Sprintf("%s-%04d", c.NumberPrefix, n)
}

func (c *Config) applyEnv() error {
	setString(&c.Invoice.NumberPrefix, "NUMBER_PREFIX")
	setString(&c.Invoice.DefaultCurrency, "CURRENCY")
	setString(&c.Invoice.DefaultTheme, "THEME")
	setString(&c.Invoice.OutputDir, "OUTPUT_DIR")
	setString(&c.Company.Name, "COMPANY_NAME")
	setString(&c.Company.Email, "COMPANY_EMAIL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.File, "LOG_FILE")

	if v := getEnv("DEFAULT_VAT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sDEFAULT_VAT=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Invoice.DefaultVAT = f
	}
	if err := setDuration(&c.Scheduler.Debounce, "DEBOUNCE"); err != nil {
		return err
	}
	if err := setDuration(&c.Scheduler.FlushBudget, "FLUSH_BUDGET"); err != nil {
		return err
	}
	return setDuration(&c.Scheduler.CalcBudget, "CALC_BUDGET")
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func setString(dst *string, key string) {
	if v := getEnv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, EnvPrefix, key, v)
	}
	*dst = d
	return nil
}

// NewLogger builds the application logger. Output goes to the configured file,
// or to out when no file is set.
func NewLogger(cfg LogConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}
	log.SetOutput(out)

	return log, nil
}
