// Package config loads service configuration from an optional YAML file and
// environment-variable overrides. Environment always wins over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Service is one upstream dependency: base URL plus basic-auth credentials.
type Service struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is everything the web binary needs.
type Config struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Env      string `yaml:"env"` // "prod" marks cookies Secure

	AddressIndex         Service `yaml:"address_index"`
	CaseService          Service `yaml:"case_service"`
	CollectionInstrument Service `yaml:"collection_instrument"`
	IAC                  Service `yaml:"iac"`

	// EQURL is the survey application's session endpoint; the signed token
	// is appended directly (it already ends in "?token=" or similar).
	EQURL             string `yaml:"eq_url"`
	AccountServiceURL string `yaml:"account_service_url"`
	JSONSecretKeys    string `yaml:"json_secret_keys"`

	SessionSigningKey string `yaml:"session_signing_key"`
	RedisURL          string `yaml:"redis_url"`

	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides and defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Host:              "0.0.0.0",
		Port:              "9092",
		LogLevel:          "info",
		AddressIndex:      Service{URL: "http://localhost:8162"},
		CaseService:       Service{URL: "http://localhost:8171"},
		CollectionInstrument: Service{URL: "http://localhost:8002"},
		IAC:               Service{URL: "http://localhost:8121"},
		EQURL:             "http://localhost:5000/session?token=",
		AccountServiceURL: "http://localhost:9092",
		JSONSecretKeys:    "secret_keys.json",
		UpstreamTimeout:   8 * time.Second,
	}
}

func applyEnv(cfg *Config) {
	set(&cfg.Host, "RH_HOST")
	set(&cfg.Port, "RH_PORT", "PORT")
	set(&cfg.LogLevel, "RH_LOG_LEVEL")
	set(&cfg.Env, "RH_ENV")

	set(&cfg.AddressIndex.URL, "ADDRESS_INDEX_SVC_URL")
	set(&cfg.AddressIndex.Username, "ADDRESS_INDEX_SVC_USERNAME")
	set(&cfg.AddressIndex.Password, "ADDRESS_INDEX_SVC_PASSWORD")

	set(&cfg.CaseService.URL, "RHSVC_URL")
	set(&cfg.CaseService.Username, "RHSVC_USERNAME")
	set(&cfg.CaseService.Password, "RHSVC_PASSWORD")

	set(&cfg.CollectionInstrument.URL, "COLLECTION_INSTRUMENT_URL")
	set(&cfg.CollectionInstrument.Username, "COLLECTION_INSTRUMENT_USERNAME")
	set(&cfg.CollectionInstrument.Password, "COLLECTION_INSTRUMENT_PASSWORD")

	set(&cfg.IAC.URL, "IAC_URL")
	set(&cfg.IAC.Username, "IAC_USERNAME")
	set(&cfg.IAC.Password, "IAC_PASSWORD")

	set(&cfg.EQURL, "EQ_URL")
	set(&cfg.AccountServiceURL, "ACCOUNT_SERVICE_URL")
	set(&cfg.JSONSecretKeys, "JSON_SECRET_KEYS")
	set(&cfg.SessionSigningKey, "RH_SESSION_SIGNING_KEY")
	set(&cfg.RedisURL, "REDIS_URL")

	if v := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.UpstreamTimeout = time.Duration(secs) * time.Second
		}
	}
}

// set assigns the first non-empty environment variable from names.
func set(dst *string, names ...string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			*dst = v
			return
		}
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
