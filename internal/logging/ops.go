package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// opsLevel converts a string log level to zerolog.Level.
func opsLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewOpsLogger builds the zerolog logger used by the influx manager and the
// status monitor. Output goes to the console, optionally to a log file, and
// optionally to a Graylog GELF endpoint when graylogAddr is non-empty.
func NewOpsLogger(file *os.File, level, graylogAddr string) (zerolog.Logger, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	if graylogAddr != "" {
		gw, err := gelf.NewWriter(graylogAddr)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("connecting gelf writer: %w", err)
		}
		writers = append(writers, gw)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opsLevel(level)).
		With().Timestamp().Logger()
	return logger, nil
}

// NewSampledLogger derives a burst-sampled logger for per-tick noise: full
// rate up to 5 entries per 10 seconds, then 1 in 100.
func NewSampledLogger(base zerolog.Logger) zerolog.Logger {
	return base.Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})
}
