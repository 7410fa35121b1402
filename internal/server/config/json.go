package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/adelorme/partage/internal/flagx"
	"github.com/adelorme/partage/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. It uses timex.Duration for interval fields, which
// allows parsing both string values such as "20s" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr  string         `json:"endpoint_addr"`
	DatabaseDSN   string         `json:"database_dsn"`
	DataDir       string         `json:"data_dir"`
	SweepInterval timex.Duration `json:"sweep_interval"`
	SessionTTL    timex.Duration `json:"session_ttl"`
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

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.DataDir = c.DataDir
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
}
