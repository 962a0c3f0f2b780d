package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// loadEnvFiles loads environment variables from .env/.env.local files.
// The first file that parses wins; existing process environment variables are
// never overwritten (godotenv.Load semantics). Upload credentials such as
// TWINE_USERNAME/TWINE_PASSWORD typically arrive this way.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", logfields.Path(envPath), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(envPath))
		return
	}
}
