// Package domain translates MCP tool calls into lane engine and center
// registry operations.
//
// The package is intentionally explicit about that mapping:
// - parse MCP tool arguments into engine inputs,
// - route lookups through the center registry surface,
// - and surface structured outputs that MCP clients can render.
//
// Validation verdicts carry the same rule codes and localized messages
// the HTTP API returns, so agent tooling and API clients agree on what
// a rejection means.
package domain
