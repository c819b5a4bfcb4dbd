package logger

import "context"

type LoggerInterface interface {
	Info(...any)
	Warn(...any)
	Error(...any)
	Debug(...any)

	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
	Debugf(string, ...any)

	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)
	Debugw(string, ...any)

	With(...any) LoggerInterface
	SafeSync()
}

// ContextLogger is implemented by loggers that enrich entries with request-scoped ids.
type ContextLogger interface {
	LoggerInterface

	InfowCtx(ctx context.Context, msg string, kv ...any)
	WarnwCtx(ctx context.Context, msg string, kv ...any)
	ErrorwCtx(ctx context.Context, msg string, kv ...any)
	DebugwCtx(ctx context.Context, msg string, kv ...any)
}

var _ ContextLogger = (*Logger)(nil)
