// Package matcher matches tool names against simple CLI patterns.
package matcher
