package utils

import (
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at the named level. Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// TimestampIn turns a provider millisecond timestamp into a time in loc.
func TimestampIn(timestampMs int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(timestampMs).In(loc)
}
