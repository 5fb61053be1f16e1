package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultPort               = "8000"
	defaultComputerMoveDelay  = time.Second
	defaultComputerChainDelay = time.Millisecond * 1500
)

type Config struct {
	Stage              string
	Port               string
	DatabaseURL        string
	LogLevel           string
	Rules              mb.Rules
	ComputerMoveDelay  time.Duration
	ComputerChainDelay time.Duration
}

// Load reads the environment, after loading .env outside of prod.
// Every invalid variable is reported, not just the first one.
func Load() (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var result *multierror.Error

	cfg := Config{
		Stage:              getenv("STAGE"),
		Port:               getenv("PORT"),
		DatabaseURL:        getenv("DATABASE_URL"),
		LogLevel:           getenv("LOG_LEVEL"),
		Rules:              mb.DefaultRules(),
		ComputerMoveDelay:  defaultComputerMoveDelay,
		ComputerChainDelay: defaultComputerChainDelay,
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		result = multierror.Append(result, fmt.Errorf("STAGE must be either %s or %s, got %q", StageDev, StageProd, cfg.Stage))
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	} else if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		result = multierror.Append(result, fmt.Errorf("PORT is not a valid port: %q", cfg.Port))
	}

	var err error
	if cfg.ComputerMoveDelay, err = parseDuration(getenv("COMPUTER_MOVE_DELAY"), defaultComputerMoveDelay); err != nil {
		result = multierror.Append(result, fmt.Errorf("COMPUTER_MOVE_DELAY: %w", err))
	}
	if cfg.ComputerChainDelay, err = parseDuration(getenv("COMPUTER_CHAIN_DELAY"), defaultComputerChainDelay); err != nil {
		result = multierror.Append(result, fmt.Errorf("COMPUTER_CHAIN_DELAY: %w", err))
	}

	if rulesPath := getenv("RULES_PATH"); rulesPath != "" {
		if cfg.Rules, err = LoadRules(rulesPath); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return cfg, result.ErrorOrNil()
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, err
	}
	if d < 0 {
		return fallback, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}

// LoadRules reads a YAML rules file. Keys left out of the file keep
// their default value.
func LoadRules(path string) (mb.Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return mb.Rules{}, err
	}

	rules := mb.DefaultRules()
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return mb.Rules{}, cerr.ErrRules(err.Error())
	}
	if err := rules.Validate(); err != nil {
		return mb.Rules{}, err
	}
	return rules, nil
}
