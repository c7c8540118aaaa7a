// Package meta carries request metadata through context: trace id, the authenticated
// principal, client details and the preferred language.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for tracing requests across services.
	TraceID ContextKey = "trace_id"

	// RequestUserID identifies the authenticated principal making the request.
	// It is the owner id of owner-scoped registry entities.
	RequestUserID ContextKey = "request_user_id"

	IPAddress  ContextKey = "ip_address"
	UserAgent  ContextKey = "user_agent"
	RemoteAddr ContextKey = "remote_addr"
	Referer    ContextKey = "referer"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"
	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// AcceptLanguage indicates the natural language and locale that the client prefers.
	AcceptLanguage ContextKey = "accept-language"
)

var allKeys = []ContextKey{ //nolint:gochecknoglobals // fixed list of known keys
	TraceID,
	RequestUserID,
	IPAddress,
	UserAgent,
	RemoteAddr,
	Referer,
	ServiceName,
	ServiceVersion,
	AcceptLanguage,
}

// InjectMetaToContext adds the non-empty values of data to the context.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns every known, non-empty string value stored in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v := Find(ctx, k); v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the string stored under key, or "" when absent.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// WithRequestUserID returns a context carrying the authenticated principal.
func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, RequestUserID, userID)
}

// RequestUser returns the authenticated principal and whether one is present.
func RequestUser(ctx context.Context) (string, bool) {
	id := Find(ctx, RequestUserID)
	return id, id != ""
}
