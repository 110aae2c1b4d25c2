// Package company carries the tenant boundary. Every record in the store
// belongs to one company; repositories refuse to run without a company
// identifier on the context.
package company

import (
	"context"
	"errors"
	"strings"
)

// ErrMissing indicates no company identifier was resolved for the request.
var ErrMissing = errors.New("company missing")

type contextKey struct{}

// With stores the company identifier inside the context.
func With(ctx context.Context, companyID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, companyID)
}

// From extracts the company identifier from the context if available.
func From(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	companyID, ok := ctx.Value(contextKey{}).(string)
	if !ok {
		return "", false
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return "", false
	}
	return companyID, true
}

// MustFrom returns the company identifier. It panics when the context lacks
// one: repositories only run behind the auth middleware, so a missing tenant
// is a routing bug, not a runtime condition.
func MustFrom(ctx context.Context) string {
	companyID, ok := From(ctx)
	if !ok {
		panic(ErrMissing)
	}
	return companyID
}
