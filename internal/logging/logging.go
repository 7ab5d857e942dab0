package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Logs go to the given file when one is
// configured, otherwise to stderr.
func Init(level zerolog.Level, logFile string) {
	var out = zerolog.MultiLevelWriter(os.Stderr)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.Warn().Err(err).Str("path", logFile).Msg("Failed to open log file, logging to stderr")
		} else {
			out = zerolog.MultiLevelWriter(f)
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	if level == zerolog.DebugLevel {
		log.Debug().Msg("Log level set to DEBUG")
	}
}
