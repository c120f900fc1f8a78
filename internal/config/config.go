package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the process-level settings for the ledger engine. The
// remote mirror and the warehouse export are optional: empty values disable
// them and the engine runs purely on the local cache.
type Config struct {
	// Port the API server listens on.
	Port string

	// DBPath is the SQLite file backing the local cache.
	DBPath string

	// Bucket is the GCS bucket for the remote mirror; empty means
	// unconfigured.
	Bucket string

	// GeminiModel overrides the default advice model when set.
	GeminiModel string

	// BQProject and BQDataset locate the warehouse export target.
	BQProject string
	BQDataset string

	// DebounceMillis overrides the save debounce window, mainly for local
	// experimentation. Zero keeps the default.
	DebounceMillis int
}

// Load reads an optional .env file and then the environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DBPath:      getenv("FINGEMINI_DB_PATH", "fingemini.db"),
		Bucket:      os.Getenv("GCS_BUCKET"),
		GeminiModel: os.Getenv("GEMINI_MODEL"),
		BQProject:   os.Getenv("BQ_PROJECT"),
		BQDataset:   getenv("BQ_DATASET", "finance"),
	}

	if raw := os.Getenv("FINGEMINI_DEBOUNCE_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("config: invalid FINGEMINI_DEBOUNCE_MS %q", raw)
		}
		cfg.DebounceMillis = ms
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
