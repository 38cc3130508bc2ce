package config

const (
	defaultConfigPath        = "~/.config/moviepipe/config.toml"
	defaultMoviesCSV         = "movies.csv"
	defaultRatingsCSV        = "ratings.csv"
	defaultLockFile          = "~/.local/share/moviepipe/moviepipe.lock"
	defaultOMDbBaseURL       = "http://www.omdbapi.com/"
	defaultOMDbTimeout       = 10
	defaultOMDbDelayMS       = 1000
	defaultStoreDriver       = "sqlite"
	defaultStoreDSN          = "movies.db"
	defaultMoviesTable       = "movies"
	defaultRatingsTable      = "ratings"
	defaultExpandedTable     = "movies_expanded"
	defaultDelimiter         = ","
	defaultGenreDelimiter    = "|"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	envOMDbAPIKey            = "OMDB_API_KEY"
	envStoreDSN              = "MOVIEPIPE_DSN"
	driverSQLite             = "sqlite"
	driverMySQL              = "mysql"
	maxRequestDelayMS        = 60_000
	maxOMDbRequestTimeoutSec = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MoviesCSV:  defaultMoviesCSV,
			RatingsCSV: defaultRatingsCSV,
			LockFile:   defaultLockFile,
		},
		OMDb: OMDb{
			BaseURL:        defaultOMDbBaseURL,
			RequestTimeout: defaultOMDbTimeout,
			RequestDelayMS: defaultOMDbDelayMS,
		},
		Store: Store{
			Driver:        defaultStoreDriver,
			MoviesTable:   defaultMoviesTable,
			RatingsTable:  defaultRatingsTable,
			ExpandedTable: defaultExpandedTable,
		},
		Dataset: Dataset{
			Delimiter:      defaultDelimiter,
			GenreDelimiter: defaultGenreDelimiter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
