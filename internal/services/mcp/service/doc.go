// Package service wires protocol transport to the MCP domain handlers.
//
// It is the transport adapter layer: the package knows how to run MCP
// over stdio or HTTP and delegates tool behavior to domain handlers.
package service
