// Package branding centralizes user-facing product naming.
package branding

// AppName is the product name surfaced to API and MCP clients.
const AppName = "LaneWorks"
