// Package cli provides shared helpers for the aegis command line: typed
// command errors, signal handling, and output formatting.
package cli
