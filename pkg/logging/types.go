package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig is what SetupStandardLogger needs to know about the
// configuration.
type LogConfig interface {
	GetFormat() string
	GetMedia() string
	NewRotatingLogger(filename string) *lumberjack.Logger
}
