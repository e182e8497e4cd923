// Package logging builds the diagnostics logger. Operator progress lines go
// through internal/console instead.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tapnode/internal/logbus"
)

// New returns a console-encoded zap logger writing to stderr, with colored
// levels when stderr is a terminal.
func New(level string) (*zap.Logger, error) {
	fd := os.Stderr.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return NewWithWriter(level, colorable.NewColorableStderr(), color)
}

func NewWithWriter(level string, w io.Writer, color bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}

// Forward copies bus messages into logger until the subscription closes.
func Forward(bus *logbus.Bus, logger *zap.Logger) (stop func()) {
	ch, cancel := bus.Subscribe(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ch {
			switch data := msg.Data.(type) {
			case logbus.LogData:
				fields := make([]zap.Field, 0, len(data.Fields))
				for k, v := range data.Fields {
					fields = append(fields, zap.Any(k, v))
				}
				logAt(logger, data.Level, data.Msg, fields...)
			case logbus.StepData:
				logger.Debug("step",
					zap.Int("account", data.Account),
					zap.String("action", data.Action),
					zap.Bool("ok", data.OK),
					zap.String("detail", data.Detail))
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func logAt(logger *zap.Logger, level, msg string, fields ...zap.Field) {
	switch level {
	case "error":
		logger.Error(msg, fields...)
	case "warn":
		logger.Warn(msg, fields...)
	case "info":
		logger.Info(msg, fields...)
	default:
		logger.Debug(msg, fields...)
	}
}
