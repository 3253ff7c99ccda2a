package domain

import "errors"

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

func ValidateLevel(level string) error {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return nil
	default:
		return ErrInvalidLogLevel
	}
}

func Levels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
