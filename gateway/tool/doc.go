// Package tool defines the MCP tools the knowledge base proxy exposes through
// the gateway, together with helpers for the target-qualified names the
// gateway uses when it invokes them.
package tool
