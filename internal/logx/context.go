package logx

import "context"

// Context keys for logging values. Private type to avoid key collisions.
type contextKey int

const (
	sessionIDKey contextKey = iota
	hookIDKey
	eventKey
)

// WithSession adds a session id to the context.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithHook adds a hook id to the context.
func WithHook(ctx context.Context, hookID string) context.Context {
	return context.WithValue(ctx, hookIDKey, hookID)
}

// WithEvent adds a hook event name to the context.
func WithEvent(ctx context.Context, event string) context.Context {
	return context.WithValue(ctx, eventKey, event)
}

// SessionIDFromContext extracts the session id from the context, "" if unset.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, sessionIDKey)
}

// HookIDFromContext extracts the hook id from the context, "" if unset.
func HookIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, hookIDKey)
}

// EventFromContext extracts the event name from the context, "" if unset.
func EventFromContext(ctx context.Context) string {
	return stringFromContext(ctx, eventKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
