// Package logging builds the crawler's logrus logger: a stdout/stderr hook
// writing through a colorable writer, filtered by level, with one logger
// instance shared across the crawler and a component field attached per
// subsystem.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// New builds the root logger. level follows logrus' textual level names
// ("debug", "info", "warn", "error"); an empty or invalid value falls back
// to "info".
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.AddHook(&standardHook{
		out:       colorable.NewColorableStdout(),
		errOut:    colorable.NewColorableStderr(),
		formatter: &logrus.TextFormatter{ForceColors: true, FullTimestamp: true},
		minLevel:  lvl,
	})

	return log
}

// standardHook routes info-and-below to stdout and warn-and-above to
// stderr, both through a colorable writer so ANSI codes render correctly
// on Windows consoles too.
type standardHook struct {
	out       io.Writer
	errOut    io.Writer
	formatter logrus.Formatter
	minLevel  logrus.Level
}

func (h *standardHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *standardHook) Fire(entry *logrus.Entry) error {
	if entry.Level > h.minLevel {
		return nil
	}

	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if entry.Level <= logrus.WarnLevel {
		_, err = h.errOut.Write(line)
	} else {
		_, err = h.out.Write(line)
	}
	return err
}

// Component returns a child logger tagged with the given subsystem name in
// a "component" field (the crawler engine logs as component=crawler).
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// ForceNoColor switches logrus' package-level standard logger to an
// uncolored formatter when NO_COLOR is set. Loggers built by New write
// through their own hook formatter and are not affected.
func ForceNoColor() {
	if os.Getenv("NO_COLOR") != "" {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
}
