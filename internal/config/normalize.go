package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOMDb()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeDataset()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MoviesCSV, err = expandPath(strings.TrimSpace(c.Paths.MoviesCSV)); err != nil {
		return fmt.Errorf("paths.movies_csv: %w", err)
	}
	if c.Paths.RatingsCSV, err = expandPath(strings.TrimSpace(c.Paths.RatingsCSV)); err != nil {
		return fmt.Errorf("paths.ratings_csv: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOMDb() {
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	if c.OMDb.APIKey == "" {
		if value, ok := os.LookupEnv(envOMDbAPIKey); ok {
			c.OMDb.APIKey = strings.TrimSpace(value)
		}
	}
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	if c.OMDb.RequestTimeout <= 0 {
		c.OMDb.RequestTimeout = defaultOMDbTimeout
	}
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "", "sqlite3":
		c.Store.Driver = driverSQLite
	case "mariadb":
		c.Store.Driver = driverMySQL
	}
	c.Store.DSN = strings.TrimSpace(c.Store.DSN)
	if c.Store.DSN == "" {
		if value, ok := os.LookupEnv(envStoreDSN); ok {
			c.Store.DSN = strings.TrimSpace(value)
		}
	}
	if c.Store.DSN == "" && c.Store.Driver == driverSQLite {
		c.Store.DSN = defaultStoreDSN
	}
	if c.Store.Driver == driverSQLite && isSQLitePath(c.Store.DSN) {
		expanded, err := expandPath(c.Store.DSN)
		if err != nil {
			return fmt.Errorf("store.dsn: %w", err)
		}
		c.Store.DSN = expanded
	}
	c.Store.MoviesTable = defaultString(c.Store.MoviesTable, defaultMoviesTable)
	c.Store.RatingsTable = defaultString(c.Store.RatingsTable, defaultRatingsTable)
	c.Store.ExpandedTable = defaultString(c.Store.ExpandedTable, defaultExpandedTable)
	return nil
}

func (c *Config) normalizeDataset() {
	if c.Dataset.Delimiter == "" {
		c.Dataset.Delimiter = defaultDelimiter
	}
	if c.Dataset.Delimiter == `\t` {
		c.Dataset.Delimiter = "\t"
	}
	if c.Dataset.GenreDelimiter == "" {
		c.Dataset.GenreDelimiter = defaultGenreDelimiter
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// isSQLitePath reports whether dsn names a database file rather than a URI
// or an in-memory database.
func isSQLitePath(dsn string) bool {
	if dsn == "" || dsn == ":memory:" {
		return false
	}
	return !strings.HasPrefix(dsn, "file:")
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
