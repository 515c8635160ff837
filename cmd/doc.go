// Package cmd implements the kbgateway command-line interface. Each file in
// this directory registers a single sub-command (create-gateway, add-target,
// invoke, serve, ...). Configuration loading and AWS client construction
// shared between commands live in shared.go.
package cmd
