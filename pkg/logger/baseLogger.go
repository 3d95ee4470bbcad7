package logger

import (
	"sync"

	"go.uber.org/zap"
)

// BaseLogger prints prefixed printf-style lines through a zap logger.
type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	sugar  *zap.SugaredLogger
}

func NewLogger(z *zap.Logger, prefix string) *BaseLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &BaseLogger{
		sugar:  z.Sugar(),
		prefix: prefix,
	}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.mu.Lock()
	prefix := l.prefix
	l.mu.Unlock()

	l.sugar.Infof(join(prefix, format), v...)
}

func (l *BaseLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	prefix := l.prefix
	l.mu.Unlock()

	l.sugar.Warnf(join(prefix, format), v...)
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	prefix := l.prefix
	l.mu.Unlock()

	l.sugar.Errorf(join(prefix, format), v...)
}

func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &BaseLogger{
		sugar:  l.sugar,
		prefix: join(l.prefix, extraPrefix),
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

func join(prefix, s string) string {
	if prefix == "" {
		return s
	}
	return prefix + " " + s
}
