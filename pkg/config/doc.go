// Package config defines the YAML configuration for the aegis service and
// handles loading, defaulting, validation, and environment overrides.
//
// Loading sequence:
//
//  1. Read YAML from file (optional; a missing file yields pure defaults)
//  2. Apply default values
//  3. Apply AEGIS_* environment variable overrides
//  4. Validate the final configuration
//
// Environment variables follow the convention AEGIS_SECTION_FIELD, e.g.
// AEGIS_SERVER_LISTEN_ADDRESS or AEGIS_GATEWAY_SIMULATE.
package config
