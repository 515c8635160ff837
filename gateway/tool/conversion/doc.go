// Package conversion turns MCP tool definitions into the inline tool schema
// payload accepted by the AgentCore gateway control plane.
package conversion
