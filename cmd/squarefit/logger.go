package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger routes the global logger to a console writer on w at the given
// level. Unknown levels fall back to info.
func initLogger(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		out.NoColor = true
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
