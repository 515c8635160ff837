// Package config defines the settings shared by the provisioning CLI and the
// Lambda proxy. Values come from an optional YAML document (any afs URL or
// local path) overlaid with the environment variables the deployment scripts
// export.
package config
