// Package storage provides the persistence collaborator for the engine: a
// durable, synchronous whole-blob read/write device. The engine treats each
// Load and Save as atomic; there is no sub-key patching.
package storage

// Backend reads and writes the single persisted snapshot.
type Backend interface {
	// Load returns the stored blob. ok is false when nothing has been
	// persisted yet; err is reserved for I/O failures.
	Load() (data []byte, ok bool, err error)
	// Save replaces the stored blob in full.
	Save(data []byte) error
	Close() error
}
