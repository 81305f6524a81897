package config

import (
	"fmt"
	"time"

	libconfig "lremanager/backend/libs/config"
	"lremanager/backend/services/ledger-generator/internal/generator"
	"lremanager/backend/services/ledger-generator/internal/service"
)

// DefaultBaseURL is the ledger API root used when nothing else is configured.
const DefaultBaseURL = "http://localhost:4000/api"

// DefaultProgramCount is the number of records seeded for a program with no count.
const DefaultProgramCount = 40

// Config defines ledger-generator configuration.
type Config struct {
	API       API       `yaml:"api" toml:"api" json:"api"`
	Generator Generator `yaml:"generator" toml:"generator" json:"generator"`
	Programs  []Program `yaml:"programs" toml:"programs" json:"programs" env:"-" validate:"required,min=1,unique=ID,dive"`
	Metrics   Metrics   `yaml:"metrics" toml:"metrics" json:"metrics"`
	Journal   Journal   `yaml:"journal" toml:"journal" json:"journal"`
	Database  Database  `yaml:"database" toml:"database" json:"database"`
}

// API points at the ledger service.
type API struct {
	BaseURL        string `yaml:"baseUrl" toml:"baseUrl" json:"baseUrl" env:"LEDGER_API_BASE_URL" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" toml:"timeoutSeconds" json:"timeoutSeconds" env:"LEDGER_API_TIMEOUT_SECONDS" validate:"gte=0"`
	JWTSecret      string `yaml:"jwtSecret" toml:"jwtSecret" json:"jwtSecret" env:"LEDGER_API_JWT_SECRET"`
}

// Generator tunes record production. Seed 0 picks a seed from the clock.
type Generator struct {
	Seed    uint64 `yaml:"seed" toml:"seed" json:"seed" env:"LEDGER_GENERATOR_SEED"`
	Workers int    `yaml:"workers" toml:"workers" json:"workers" env:"LEDGER_GENERATOR_WORKERS" validate:"gte=1,lte=64"`
	DryRun  bool   `yaml:"dryRun" toml:"dryRun" json:"dryRun" env:"LEDGER_GENERATOR_DRY_RUN"`
}

// Program is one seeding target.
type Program struct {
	ID    int64  `yaml:"id" toml:"id" json:"id" validate:"gt=0"`
	Name  string `yaml:"name" toml:"name" json:"name" validate:"required"`
	Mode  string `yaml:"mode" toml:"mode" json:"mode" validate:"required"`
	Count int    `yaml:"count" toml:"count" json:"count" validate:"gte=1"`
}

// Metrics configures the optional Pushgateway push.
type Metrics struct {
	PushgatewayURL string `yaml:"pushgatewayUrl" toml:"pushgatewayUrl" json:"pushgatewayUrl" env:"LEDGER_METRICS_PUSHGATEWAY_URL" validate:"omitempty,url"`
}

// Journal configures the optional redis run journal.
type Journal struct {
	RedisAddr     string `yaml:"redisAddr" toml:"redisAddr" json:"redisAddr" env:"LEDGER_JOURNAL_REDIS_ADDR"`
	RedisPassword string `yaml:"redisPassword" toml:"redisPassword" json:"redisPassword" env:"LEDGER_JOURNAL_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redisDb" toml:"redisDb" json:"redisDb" env:"LEDGER_JOURNAL_REDIS_DB" validate:"gte=0"`
	TTLHours      int    `yaml:"ttlHours" toml:"ttlHours" json:"ttlHours" env:"LEDGER_JOURNAL_TTL_HOURS" validate:"gte=0"`
	Keep          int    `yaml:"keep" toml:"keep" json:"keep" env:"LEDGER_JOURNAL_KEEP" validate:"gte=0"`
}

// Database configures direct postgres access for verify/purge.
type Database struct {
	DSN string `yaml:"dsn" toml:"dsn" json:"dsn" env:"LEDGER_POSTGRES_DSN"`
}

// Default returns the stock seeding plan:
// 40 annual records for program 1, then 40 POP records for program 2.
func Default() *Config {
	return &Config{
		API:       API{BaseURL: DefaultBaseURL},
		Generator: Generator{Workers: 1},
		Programs:  defaultPrograms(),
		Journal:   Journal{TTLHours: 24 * 30, Keep: 100},
	}
}

func defaultPrograms() []Program {
	return []Program{
		{ID: 1, Name: "Annual Program", Mode: "annual", Count: DefaultProgramCount},
		{ID: 2, Name: "POP Program", Mode: "pop", Count: DefaultProgramCount},
	}
}

// Load reads path (or CONFIG_FILE when empty) over the defaults, applies env overrides
// and validates the result.
//
// A programs list in the file replaces the default plan as a whole; entries never
// inherit fields from the default program at the same index. A missing or zero
// count becomes DefaultProgramCount.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Programs = nil
	if err := libconfig.LoadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Programs == nil {
		cfg.Programs = defaultPrograms()
	}
	for i := range cfg.Programs {
		if cfg.Programs[i].Count == 0 {
			cfg.Programs[i].Count = DefaultProgramCount
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and program modes.
func (c *Config) Validate() error {
	if err := libconfig.Validate(c); err != nil {
		return err
	}
	for _, p := range c.Programs {
		if _, err := generator.ParseMode(p.Mode); err != nil {
			return fmt.Errorf("config: program %d: %w", p.ID, err)
		}
	}
	return nil
}

// SeedPrograms converts the configured programs for the seeder.
func (c *Config) SeedPrograms() ([]service.Program, error) {
	out := make([]service.Program, 0, len(c.Programs))
	for _, p := range c.Programs {
		mode, err := generator.ParseMode(p.Mode)
		if err != nil {
			return nil, fmt.Errorf("config: program %d: %w", p.ID, err)
		}
		out = append(out, service.Program{ID: p.ID, Name: p.Name, Mode: mode, Count: p.Count})
	}
	return out, nil
}

// HTTPTimeout returns ledger client timeout; zero disables it.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// JournalTTL returns how long run summaries are kept.
func (c *Config) JournalTTL() time.Duration {
	return time.Duration(c.Journal.TTLHours) * time.Hour
}
