// Package logging configures the structured logger used by
// cmd/ttf2meshctl. The library packages (sfnt, outline, mesh) do not log.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a text-formatted logger writing to stderr, with level parsed
// from a string such as "debug", "info", "warn" (invalid or empty values
// fall back to "info").
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// WithGlyph returns a logger entry tagged with the glyph index and rune
// being processed, the fields the CLI's per-glyph errors are logged
// against.
func WithGlyph(log *logrus.Logger, glyphIndex int, r rune) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"glyph": glyphIndex,
		"rune":  string(r),
	})
}
