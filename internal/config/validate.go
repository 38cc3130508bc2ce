package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOMDb(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.MoviesCSV == "" {
		return errors.New("paths.movies_csv must be set")
	}
	if c.Paths.RatingsCSV == "" {
		return errors.New("paths.ratings_csv must be set")
	}
	return nil
}

func (c *Config) validateOMDb() error {
	if c.OMDb.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("omdb.api_key is required. Set %s env var or edit %s (create with 'moviepipe config init')", envOMDbAPIKey, defaultPath)
	}
	if c.OMDb.RequestTimeout > maxOMDbRequestTimeoutSec {
		return fmt.Errorf("omdb.request_timeout must be at most %d seconds", maxOMDbRequestTimeoutSec)
	}
	if c.OMDb.RequestDelayMS < 0 || c.OMDb.RequestDelayMS > maxRequestDelayMS {
		return fmt.Errorf("omdb.request_delay_ms must be between 0 and %d", maxRequestDelayMS)
	}
	if c.OMDb.RequestsPerSecond < 0 {
		return errors.New("omdb.requests_per_second must be >= 0 (0 disables the limiter)")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case driverSQLite, driverMySQL:
	default:
		return fmt.Errorf("store.driver: unsupported value %q (want sqlite or mysql)", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn must be set for driver %s (or set %s)", c.Store.Driver, envStoreDSN)
	}
	names := map[string]string{
		"store.movies_table":   c.Store.MoviesTable,
		"store.ratings_table":  c.Store.RatingsTable,
		"store.expanded_table": c.Store.ExpandedTable,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if other, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s must name different tables (both %q)", key, other, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateDataset() error {
	if utf8.RuneCountInString(c.Dataset.Delimiter) != 1 {
		return fmt.Errorf("dataset.delimiter must be a single character, got %q", c.Dataset.Delimiter)
	}
	if c.Dataset.Delimiter == "\"" || c.Dataset.Delimiter == "\n" || c.Dataset.Delimiter == "\r" {
		return fmt.Errorf("dataset.delimiter %q is not allowed", c.Dataset.Delimiter)
	}
	return nil
}
