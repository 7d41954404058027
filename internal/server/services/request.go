// Package services contains server-side business logic: the two-stage login
// and second factor lifecycle, vault access resolution, the audit trail and
// every vault, secret and membership operation built on top of them.
package services

import (
	"context"
	"unicode/utf8"
)

const (
	maxUserAgentLen = 500
	maxIPLen        = 45
)

// RequestInfo is the provenance of the in-flight request recorded with every
// audit entry.
type RequestInfo struct {
	IP        string
	UserAgent string
}

type requestInfoKey struct{}

// WithRequestInfo attaches provenance to ctx. The transport layer calls it
// once per request.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFrom returns the provenance stored in ctx, or the zero value.
func RequestInfoFrom(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
