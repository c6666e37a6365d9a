package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"liars-server/internal/util"
)

// Config provides configuration for the Liars server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Log struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Lobby Lobby `yaml:"lobby"`
}

// Lobby holds the defaults every new lobby is created with
type Lobby struct {
	MinPlayers       int  `yaml:"minPlayers" envconfig:"min_players"`
	MaxPlayers       int  `yaml:"maxPlayers" envconfig:"max_players"`
	MaxStake         int  `yaml:"maxStake" envconfig:"max_stake"`
	PenaltyThreshold int  `yaml:"penaltyThreshold" envconfig:"penalty_threshold"`
	JokersWild       bool `yaml:"jokersWild" envconfig:"jokers_wild"`
}

var config Config

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	cfg := Config{
		MigrationsPath: "./sql",
	}

	cfg.JWT.PublicKey = ".keys/public.pem"
	cfg.JWT.PrivateKey = ".keys/private.key"
	cfg.Log.Level = "info"
	cfg.Lobby = Lobby{
		MinPlayers:       2,
		MaxPlayers:       4,
		MaxStake:         1000,
		PenaltyThreshold: 6,
	}

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The defaults are overlaid with the YAML file in LIARS_CONFIG_FILE (config.yaml if unset),
// then with LIARS_* environment variables. A missing file is not an error.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("LIARS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("liars", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
