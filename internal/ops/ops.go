// Package ops implements the operations exposed by the CLI and MCP
// surfaces, one file per operation.
package ops

// Listing limits
const (
	DefaultListLimit   = 50
	MaxListLimit       = 1000
	DefaultSenderLimit = 50
	MaxSearchLimit     = 5000
)

// clampLimit applies default and maximum bounds to a requested limit.
func clampLimit(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}
