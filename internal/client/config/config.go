// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the partage client.
//
// Fields:
//   - ServerBaseURL: base URL of the partage server.
//   - DatabasePath: path to the local SQLite state database.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabasePath = "./partage.db"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
