package sundaecli

import (
	"os"

	"github.com/rs/zerolog"
)

func Logger(service Service) zerolog.Logger {
	level := zerolog.InfoLevel
	if CommonOpts.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("service", service.Name).
		Str("version", service.Version).
		Logger()
}
