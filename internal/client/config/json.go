package config

import (
	"encoding/json"
	"os"

	"github.com/parallaxhq/parallax/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling; parsed values
// are copied into the runtime Config.
type JsonConfig struct {
	DataDir       string `json:"data_dir"`
	ServerBaseURL string `json:"server_base_url"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is given the function is a no-op. Read or
// unmarshal errors panic; configuration is resolved once at startup and a
// broken file should stop the program immediately.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
}
