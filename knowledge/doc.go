// Package knowledge lists Amazon Bedrock knowledge bases and retrieves
// passages from them. It is the only package of the proxy that talks to the
// Bedrock agent APIs.
package knowledge
