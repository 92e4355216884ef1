package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Creation() CreationRepository

	// Close releases the underlying client resources
	Close() error
}
