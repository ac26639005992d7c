package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	configFileBase = "assignments_config"

	BackendSheets   = "sheets"
	BackendPostgres = "postgres"

	LedgerDatabase = "database"
	LedgerRedis    = "redis"
)

// DatabaseConfig selects where roster data and assignments are persisted
type DatabaseConfig struct {
	Backend string `yaml:"backend" validate:"oneof=sheets postgres"`
	URL     string `yaml:"url,omitempty" env:"ASSIGNMENTS_DATABASE_URL"`
}

// LedgerConfig selects the store that backs the live assignment ledger
type LedgerConfig struct {
	Backend string `yaml:"backend" validate:"oneof=database redis"`
}

// RedisConfig is used when the ledger backend is redis
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" env:"ASSIGNMENTS_REDIS_ADDR"`
	Password string `yaml:"password,omitempty" env:"ASSIGNMENTS_REDIS_PASSWORD"`
	DB       int    `yaml:"db,omitempty" validate:"min=0"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Config represents the application configuration
type Config struct {
	MembersSheetID      string         `yaml:"membersSheetID" validate:"required"`
	MembersTab          string         `yaml:"membersTab" validate:"required"`
	DatabaseSheetID     string         `yaml:"databaseSheetID,omitempty"`
	Database            DatabaseConfig `yaml:"database"`
	Ledger              LedgerConfig   `yaml:"ledger"`
	Redis               RedisConfig    `yaml:"redis"`
	MidweekRRule        string         `yaml:"midweekRRule" validate:"required"`
	WeekendRRule        string         `yaml:"weekendRRule" validate:"required"`
	AvailabilityMode    string         `yaml:"availabilityMode" validate:"oneof=all any"`
	Locale              string         `yaml:"locale" env:"ASSIGNMENTS_LOCALE" validate:"bcp47_language_tag"`
	CircuitOverseerName string         `yaml:"circuitOverseerName,omitempty"`
	PocketMode          bool           `yaml:"pocketMode,omitempty"`
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Sprintf("failed to register validator translations: %v", err))
	}
}

// Load loads and validates assignments_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "assignments_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads the configuration from a specific path, overlays the
// environment (after loading an optional .env file) and validates the result
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads the given files when they exist. Variables already set in
// the environment are kept.
func loadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Backend == "" {
		cfg.Database.Backend = BackendSheets
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = LedgerDatabase
	}
	if cfg.AvailabilityMode == "" {
		cfg.AvailabilityMode = "all"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", translate(err))
	}

	switch cfg.Database.Backend {
	case BackendSheets:
		if cfg.DatabaseSheetID == "" {
			return fmt.Errorf("config validation failed: databaseSheetID is required for the sheets backend")
		}
	case BackendPostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("config validation failed: database.url is required for the postgres backend")
		}
	}

	if cfg.Ledger.Backend == LedgerRedis && cfg.Redis.Addr == "" {
		return fmt.Errorf("config validation failed: redis.addr is required for the redis ledger")
	}

	if _, err := rrule.StrToRRule(cfg.MidweekRRule); err != nil {
		return fmt.Errorf("invalid rrule in midweekRRule: %w", err)
	}
	if _, err := rrule.StrToRRule(cfg.WeekendRRule); err != nil {
		return fmt.Errorf("invalid rrule in weekendRRule: %w", err)
	}

	return nil
}

// translate turns validator errors into readable English messages
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, msg := range verrs.Translate(translator) {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)

	return errors.New(strings.Join(msgs, "; "))
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	name := configFileBase + ".yaml"
	if env != "" {
		name = configFileBase + "." + env + ".yaml"
	}
	return locate(name)
}

// locate returns name if it exists in the working directory, else its path in
// the home directory
func locate(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
