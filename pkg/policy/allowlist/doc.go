// Package allowlist owns the environment-scoped action allowlist.
//
// Every action the pipeline ever decides on is checked against this table
// before execution; there is no bypass path. The table is static per
// deployment but can be hot-reloaded from its YAML source file when watching
// is enabled.
package allowlist
