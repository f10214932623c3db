// internal/status/snapshot.go
package status

// Snapshot is exactly what the status cells are allowed to show.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Healthy   bool
	Waiting   bool
	Row       int // zero-based row within the source document
	HasCursor bool
}
