package utils

import (
	"context"
	"errors"

	"trackserver/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrCompanyIDNotFound  = errors.New("companyID not found in context")
	ErrCompanyIDNotString = errors.New("companyID in context is not a string")
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetCompanyIDFromContext retrieves the tenant company ID from the context.
func GetCompanyIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.CompanyIDKey)
	if val == nil {
		return "", ErrCompanyIDNotFound
	}
	companyID, ok := val.(string)
	if !ok {
		return "", ErrCompanyIDNotString
	}
	return companyID, nil
}

// GetUserIDFromContext retrieves the calling user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// Context builder functions

// WithCompanyID adds the tenant company ID to context
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, contextkeys.CompanyIDKey, companyID)
}

// WithUserID adds the user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithRequestID adds the request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds the component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds the operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// Optional getters that return default values instead of errors

// GetCompanyIDOrDefault retrieves the company ID from context or returns a default value
func GetCompanyIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetCompanyIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasCompanyID reports whether the context carries a company ID
func HasCompanyID(ctx context.Context) bool {
	_, err := GetCompanyIDFromContext(ctx)
	return err == nil
}

// HasUserID reports whether the context carries a user ID
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}
