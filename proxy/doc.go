// Package proxy implements the Lambda function behind the gateway target. It
// decides which tool an invocation addresses, runs it against the knowledge
// base service and wraps the formatted text in an MCP tool result.
//
// The same dispatch is exposed over a local MCP server so the tools can be
// exercised without a deployed gateway.
package proxy
