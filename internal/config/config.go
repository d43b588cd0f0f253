// Package config defines the simulator configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and REDPACKET_* env vars.
// - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// HistoryFile is where the session history is saved.
	HistoryFile string `koanf:"history_file"`

	// HistoryFormat forces json or yaml; empty means "by file extension".
	HistoryFormat string `koanf:"history_format"`

	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`

	// MinShare is the lower bound of every draw, as decimal text.
	MinShare string `koanf:"min_share"`

	// MaxParticipants caps the participant count of one draw.
	MaxParticipants int `koanf:"max_participants"`

	// MetricsTextfile, when set, receives a Prometheus text dump on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// Autosave writes the history after every successful draw.
	Autosave bool `koanf:"autosave"`
}

// DefaultMaxParticipants bounds a draw so a typo cannot allocate gigabytes.
const DefaultMaxParticipants = 100000

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		HistoryFile: "red_packet_history.json",
		MinShare:    "0.01",

		MaxParticipants: DefaultMaxParticipants,
	}
}
