package demo

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// logLevel adapts zapcore.Level to pflag.Value so --log-level can be
// parsed and validated by cobra's flag set directly, rather than taking a
// bare string and parsing it by hand after Execute.
type logLevel struct {
	zapcore.Level
}

func (l *logLevel) String() string {
	return l.Level.String()
}

func (l *logLevel) Set(s string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s, err)
	}
	l.Level = lvl
	return nil
}

func (l *logLevel) Type() string {
	return "level"
}
