// Package logging はロギング機能を提供します
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error)
}

// JSONLogger はJSONフォーマットでログを出力するロガーです
type JSONLogger struct {
	zl *zap.Logger
}

// NewJSONLogger は INFO 以上を出力する新しいJSONLoggerインスタンスを作成します
func NewJSONLogger(writer io.Writer) *JSONLogger {
	return NewJSONLoggerWithLevel(writer, zapcore.InfoLevel)
}

// NewJSONLoggerWithLevel は出力レベルを指定して JSONLogger を作成します
func NewJSONLoggerWithLevel(writer io.Writer, min zapcore.Level) *JSONLogger {
	if writer == nil {
		writer = os.Stderr
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(min),
	)
	return &JSONLogger{zl: zap.New(core)}
}

// ParseLevel はレベル文字列を解釈します。未知の値は INFO として扱います。
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Log はメッセージをJSONフォーマットでログ出力します
func (l *JSONLogger) Log(level, message string, err error) {
	var fields []zap.Field
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch ParseLevel(level) {
	case zapcore.DebugLevel:
		l.zl.Debug(message, fields...)
	case zapcore.WarnLevel:
		l.zl.Warn(message, fields...)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		l.zl.Error(message, fields...)
	default:
		l.zl.Info(message, fields...)
	}
}

// Sync はバッファされたログを書き出します
func (l *JSONLogger) Sync() error {
	return l.zl.Sync()
}

// Nop は何も出力しないロガーです
type Nop struct{}

// Log は何もしません
func (Nop) Log(string, string, error) {}
