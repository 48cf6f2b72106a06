package logging

import (
	"context"

	"go.viam.com/utils"
)

type debugLogKeyType int

const debugLogKeyID = debugLogKeyType(iota)

// EnableDebugMode returns a new context marked for debug logging under the given key. An empty
// key generates a random one so that the lines of one run can be told apart from another's.
func EnableDebugMode(ctx context.Context, debugLogKey string) context.Context {
	if debugLogKey == "" {
		debugLogKey = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, debugLogKeyID, debugLogKey)
}

// IsDebugMode returns whether the input context has debug logging enabled.
func IsDebugMode(ctx context.Context) bool {
	return DebugKey(ctx) != ""
}

// DebugKey returns the key the context was marked with, or "" if it is not in debug mode.
func DebugKey(ctx context.Context) string {
	if val, ok := ctx.Value(debugLogKeyID).(string); ok {
		return val
	}
	return ""
}

// FromContext returns logger unchanged unless ctx is in debug mode, in which case it returns
// a Debug+ sublogger named after the debug key.
func FromContext(ctx context.Context, logger Logger) Logger {
	key := DebugKey(ctx)
	if key == "" {
		return logger
	}
	debugLogger := logger.Sublogger("debug-" + key)
	debugLogger.SetLevel(DEBUG)
	return debugLogger
}
