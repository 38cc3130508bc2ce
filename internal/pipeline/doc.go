// Package pipeline wires the loader, the enricher and the store into one
// sequential run guarded by a lock file.
package pipeline
