// Package middleware provides the HTTP middleware chain: panic recovery,
// request logging, correlation IDs, and an outer request timeout.
package middleware
