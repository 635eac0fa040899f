package auditcontext

import (
	"context"
	"strings"
)

type contextKey string

const (
	requestIDKey contextKey = "audit.request_id"
	ipAddressKey contextKey = "audit.ip_address"
	userAgentKey contextKey = "audit.user_agent"
	actorTypeKey contextKey = "audit.actor_type"
	actorIDKey   contextKey = "audit.actor_id"
	actorNameKey contextKey = "audit.actor_name"
)

func WithRequestID(ctx context.Context, value string) context.Context {
	return withString(ctx, requestIDKey, value)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, requestIDKey)
}

func WithIPAddress(ctx context.Context, value string) context.Context {
	return withString(ctx, ipAddressKey, value)
}

func IPAddressFromContext(ctx context.Context) string {
	return stringFrom(ctx, ipAddressKey)
}

func WithUserAgent(ctx context.Context, value string) context.Context {
	return withString(ctx, userAgentKey, value)
}

func UserAgentFromContext(ctx context.Context) string {
	return stringFrom(ctx, userAgentKey)
}

// WithActor stores the authenticated actor. name is the human readable
// identity (usually the email address) stamped on records the actor creates.
func WithActor(ctx context.Context, actorType, actorID, name string) context.Context {
	ctx = withString(ctx, actorTypeKey, actorType)
	ctx = withString(ctx, actorIDKey, actorID)
	return withString(ctx, actorNameKey, name)
}

func ActorFromContext(ctx context.Context) (string, string) {
	return stringFrom(ctx, actorTypeKey), stringFrom(ctx, actorIDKey)
}

// ActorNameFromContext returns the actor's display identity, falling back to
// the actor id.
func ActorNameFromContext(ctx context.Context) string {
	if name := stringFrom(ctx, actorNameKey); name != "" {
		return name
	}
	return stringFrom(ctx, actorIDKey)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	value = strings.TrimSpace(value)
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
