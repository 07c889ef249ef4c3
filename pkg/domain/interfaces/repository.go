package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Memory() MemoryStore
	Contact() ContactStore

	Close() error
}
