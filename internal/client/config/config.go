// Package config handles configuration for the Parallax CLI,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the Parallax CLI.
//
// Fields:
//   - DataDir: directory holding the local JSON documents.
//   - ServerBaseURL: base URL of the optional Parallax backend; only the
//     query/scan/photo commands talk to it.
type Config struct {
	DataDir       string
	ServerBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ".parallax"
	c.ServerBaseURL = "http://127.0.0.1:8080"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
