package config

// PlaceholderTMDBKey is the value shipped in sample configs. It is treated as
// if no key were configured.
const PlaceholderTMDBKey = "YOUR_TMDB_API_KEY"

const (
	defaultDataDir               = "~/.local/share/cinefile"
	defaultLogDir                = "~/.local/share/cinefile/logs"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBRequestTimeout    = 15
	defaultTMDBRequestsPerSecond = 20
	defaultTMDBCacheTTLSeconds   = 600
	defaultImportMaxConcurrency  = 6
	defaultDetailConcurrency     = 4
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			RequestTimeout:    defaultTMDBRequestTimeout,
			RequestsPerSecond: defaultTMDBRequestsPerSecond,
			CacheTTLSeconds:   defaultTMDBCacheTTLSeconds,
		},
		Import: Import{
			MaxConcurrency:    defaultImportMaxConcurrency,
			DetailConcurrency: defaultDetailConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
