package config

import (
	"encoding/json"
	"os"

	"github.com/adelorme/partage/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files.
type JsonConfig struct {
	ServerBaseURL string `json:"server_base_url"`
	DatabasePath  string `json:"database_path"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags, if any. A missing flag means no JSON is loaded; an
// unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerBaseURL = c.ServerBaseURL
	config.DatabasePath = c.DatabasePath
}
