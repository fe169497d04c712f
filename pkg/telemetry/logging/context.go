package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// OperationIDKey is the context key for operation IDs assigned by the
	// use-case executor.
	OperationIDKey contextKey = "operation_id"

	// PolicyNameKey is the context key for the policy a call operates on.
	PolicyNameKey contextKey = "policy"

	// OriginKey is the context key for the origin of a policy operation
	// (e.g. "ui", "sync", "api").
	OriginKey contextKey = "origin"
)

// WithOperationID adds an operation ID to the context.
func WithOperationID(ctx context.Context, operationID string) context.Context {
	return context.WithValue(ctx, OperationIDKey, operationID)
}

// GetOperationID retrieves the operation ID from the context.
func GetOperationID(ctx context.Context) string {
	if operationID, ok := ctx.Value(OperationIDKey).(string); ok {
		return operationID
	}
	return ""
}

// WithPolicyName adds a policy name to the context.
func WithPolicyName(ctx context.Context, policyName string) context.Context {
	return context.WithValue(ctx, PolicyNameKey, policyName)
}

// GetPolicyName retrieves the policy name from the context.
func GetPolicyName(ctx context.Context) string {
	if policyName, ok := ctx.Value(PolicyNameKey).(string); ok {
		return policyName
	}
	return ""
}

// WithOrigin adds an operation origin to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginKey, origin)
}

// GetOrigin retrieves the operation origin from the context.
func GetOrigin(ctx context.Context) string {
	if origin, ok := ctx.Value(OriginKey).(string); ok {
		return origin
	}
	return ""
}

// ContextAttrs extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func ContextAttrs(ctx context.Context) []any {
	var fields []any

	if operationID := GetOperationID(ctx); operationID != "" {
		fields = append(fields, "operation_id", operationID)
	}
	if policyName := GetPolicyName(ctx); policyName != "" {
		fields = append(fields, "policy", policyName)
	}
	if origin := GetOrigin(ctx); origin != "" {
		fields = append(fields, "origin", origin)
	}

	return fields
}
