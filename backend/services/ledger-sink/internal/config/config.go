package config

import (
	"fmt"
	"net/http"
	"strings"

	libconfig "lremanager/backend/libs/config"
)

// Program is a ledger owner known to the sink.
type Program struct {
	ID   int64  `yaml:"id" toml:"id" json:"id" validate:"gt=0"`
	Name string `yaml:"name" toml:"name" json:"name" validate:"required"`
}

// Config defines ledger-sink configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" toml:"port" json:"port" env:"LEDGER_SINK_HTTP_PORT"`
	} `yaml:"http" toml:"http" json:"http"`
	JWT struct {
		Secret string `yaml:"secret" toml:"secret" json:"secret" env:"LEDGER_SINK_JWT_SECRET"`
	} `yaml:"jwt" toml:"jwt" json:"jwt"`
	Programs []Program `yaml:"programs" toml:"programs" json:"programs" env:"-" validate:"required,min=1,unique=ID,dive"`
	Failure  struct {
		Rate   float64 `yaml:"rate" toml:"rate" json:"rate" env:"LEDGER_SINK_FAIL_RATE" validate:"gte=0,lte=1"`
		Status int     `yaml:"status" toml:"status" json:"status" env:"LEDGER_SINK_FAIL_STATUS" validate:"gte=400,lte=599"`
		Body   string  `yaml:"body" toml:"body" json:"body" env:"LEDGER_SINK_FAIL_BODY"`
	} `yaml:"failure" toml:"failure" json:"failure"`
}

// Load configuration via shared helper. path may be empty.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Programs: []Program{
			{ID: 1, Name: "Annual Program"},
			{ID: 2, Name: "POP Program"},
		},
	}
	cfg.HTTP.Port = "4000"
	cfg.Failure.Status = http.StatusInternalServerError
	cfg.Failure.Body = "server error"

	if err := libconfig.LoadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	if err := libconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "4000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
