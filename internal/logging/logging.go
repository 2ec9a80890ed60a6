package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Development output is human readable,
// production output is plain JSON at info level.
func New(environment string) zerolog.Logger {
	if environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return zerolog.New(os.Stdout).With().
			Timestamp().
			Str("env", environment).
			Logger()
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().
		Timestamp().
		Str("env", environment).
		Logger()
}
