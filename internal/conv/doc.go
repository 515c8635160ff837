// Package conv holds the value coercion helpers used when turning loosely
// typed Lambda events and tool arguments into request structs.
package conv
