// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global log level. Console output is human friendly, anything
// else (Lambda, CloudWatch) stays JSON.
func Init(level string, console bool) error {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).Level(parsed).With().Timestamp().Logger()
	return nil
}
