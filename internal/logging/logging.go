// Package logging configures the process logger.
package logging

import (
	"github.com/sirupsen/logrus"
)

// New returns a logrus logger at the given level. Unknown levels fall back to
// info. The returned logger satisfies calculation.Logger directly.
func New(level string) *logrus.Logger {
	log := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return log
}
