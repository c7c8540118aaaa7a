package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	encConsole = "console"
	levelDebug = "debug"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level specifies the minimum log level to emit: "debug", "info", "warn" or "error".
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`

	// Encoding is "json" for log processors or "console" for colored,
	// human readable lines during development.
	Encoding string `yaml:"encoding" validate:"oneof=json console" default:"json"`

	// Disable creates a no-op logger. Useful in tests.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) getZapConfig() (*zap.Config, error) {
	zapLevel := zap.NewAtomicLevel()

	err := zapLevel.UnmarshalText([]byte(c.Level))
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"level": c.Level}))
	}

	encodeLevel := zapcore.CapitalLevelEncoder
	if c.Encoding == encConsole {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     messageKey,
		LevelKey:       levelKey,
		NameKey:        nameKey,
		TimeKey:        timeKey,
		EncodeLevel:    encodeLevel,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	return &zap.Config{
		Level:            zapLevel,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         c.Encoding,
		EncoderConfig:    encoderConfig,
	}, nil
}
