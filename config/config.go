// Package config loads the surveydash YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/fetch"
)

// PasswordEnv overrides remote.password when set
const PasswordEnv = "SURVEYDASH_PASSWORD"

var (
	// ErrConfigNotFound is returned when the configuration file does not exist
	ErrConfigNotFound = errors.New("config: configuration file not found")
	// ErrMissingCredentials is returned when the remote section lacks a required field
	ErrMissingCredentials = fetch.ErrMissingCredentials
)

// Config is the content of surveydash.yaml
type Config struct {
	Remote      Remote   `yaml:"remote"`
	Surveys     []Survey `yaml:"surveys"`
	RawDir      string   `yaml:"raw_dir"`
	SnapshotDir string   `yaml:"snapshot_dir"`
	// Bins is the number of equal-width bins for numeric columns in the association matrices
	Bins int `yaml:"bins"`
}

// Remote holds the questionnaire host account
type Remote struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username"`
	UID      int           `yaml:"uid"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Survey is one configured export
type Survey struct {
	Variant      string `yaml:"variant"`
	Country      string `yaml:"country"`
	ID           int    `yaml:"id"`
	Language     string `yaml:"language"`
	ResponseType string `yaml:"response_type"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Remote:      Remote{Timeout: fetch.DefaultTimeout},
		RawDir:      "data/raw",
		SnapshotDir: "data/snapshots",
		Bins:        10,
	}
}

// Load reads path over Default. The PasswordEnv variable, when set, replaces the
// configured password.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if pw, ok := os.LookupEnv(PasswordEnv); ok && pw != "" {
		cfg.Remote.Password = pw
	}
	if cfg.Bins < 2 {
		return Config{}, fmt.Errorf("config: bins must be at least 2, got %d", cfg.Bins)
	}
	return cfg, nil
}

// Credentials returns the fetcher account, or ErrMissingCredentials
func (c Config) Credentials() (fetch.Credentials, error) {
	creds := fetch.Credentials{
		URL:      c.Remote.URL,
		Username: c.Remote.Username,
		Password: c.Remote.Password,
		UID:      c.Remote.UID,
	}
	if err := creds.Validate(); err != nil {
		return fetch.Credentials{}, err
	}
	return creds, nil
}

// FetchSurveys resolves the configured surveys in file order.
func (c Config) FetchSurveys() ([]fetch.Survey, error) {
	surveys := make([]fetch.Survey, 0, len(c.Surveys))
	seen := make(map[string]int, len(c.Surveys))
	for i, s := range c.Surveys {
		v, err := model.ParseVariant(s.Variant)
		if err != nil {
			return nil, fmt.Errorf("config: surveys[%d]: %w", i, err)
		}
		country, err := model.ParseCountry(s.Country)
		if err != nil {
			return nil, fmt.Errorf("config: surveys[%d]: %w", i, err)
		}
		if s.ID <= 0 {
			return nil, fmt.Errorf("config: surveys[%d]: missing survey id", i)
		}
		key := v.Slug() + "_" + country.Slug()
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("config: surveys[%d] repeats %s of surveys[%d]", i, key, j)
		}
		seen[key] = i

		language := s.Language
		if language == "" {
			language = country.Language()
		}
		surveys = append(surveys, fetch.Survey{
			Variant:      v,
			Country:      country,
			ID:           s.ID,
			Language:     language,
			ResponseType: s.ResponseType,
		})
	}
	return surveys, nil
}
