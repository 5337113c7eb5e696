// Package gateway carries out decided remediation actions against
// infrastructure, or simulates them.
//
// Every request passes the same three stages: field validation, allowlist
// enforcement, then execution. No action bypasses the allowlist regardless
// of which strategy decided it. The gateway never returns an error to its
// caller for a bad request; rejections are expressed as ExecutionResults
// with status "rejected" and a reason tag.
package gateway
