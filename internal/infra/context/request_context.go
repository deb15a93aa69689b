package context

import (
	"context"
)

type contextKey string

const (
	contextKeyTraceID      = contextKey("traceID")
	contextKeyAttachmentID = contextKey("attachmentID")
)

// TraceIDFromContext extracts the request trace ID from the context.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(contextKeyTraceID).(string)

	return traceID, ok
}

// WithTraceID returns a context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}

// AttachmentIDFromContext extracts the attachment a request operates on.
func AttachmentIDFromContext(ctx context.Context) (string, bool) {
	attachmentID, ok := ctx.Value(contextKeyAttachmentID).(string)

	return attachmentID, ok
}

// WithAttachmentID returns a context carrying the attachment a request
// operates on, so log records can be correlated with it.
func WithAttachmentID(ctx context.Context, attachmentID string) context.Context {
	return context.WithValue(ctx, contextKeyAttachmentID, attachmentID)
}
