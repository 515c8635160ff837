// Package gateway provisions the AgentCore gateway that fronts the knowledge
// base proxy: the IAM role the gateway assumes, the gateway itself with its
// Cognito JWT authorizer, and the Lambda target carrying the tool schema.
package gateway
