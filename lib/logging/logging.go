package logging

import (
	"context"
	"log"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
}

// ContextKey is the type of the key used with context to carry the
// contextual logging prefix.
type ContextKey string

const (
	// prefixKey the context.Context key to store the logging prefix.
	prefixKey ContextKey = "logging.prefix"
)

// WithPrefix stores a logging prefix in the provided context. It is
// generally set per request by the request logger middleware.
func WithPrefix(
	ctx context.Context,
	prefix string,
) context.Context {
	return context.WithValue(ctx, prefixKey, prefix)
}

// Logf logs a formatted message, prefixed with the contextual prefix when
// one is set.
func Logf(
	ctx context.Context,
	format string,
	args ...interface{},
) {
	if ctx != nil {
		if prefix, ok := ctx.Value(prefixKey).(string); ok {
			log.Printf("[%s] "+format, append([]interface{}{prefix}, args...)...)
			return
		}
	}
	log.Printf(format, args...)
}
