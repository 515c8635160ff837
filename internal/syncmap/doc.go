// Package syncmap offers a small generic map guarded by a sync.RWMutex.
package syncmap
