package memory

import (
	"github.com/m-mizutani/atelier/pkg/domain/interfaces"
)

// Memory is an in-memory implementation of interfaces.Repository.
// It is used as the row-store backend and for tests. Similarity search
// ranks stored embeddings in-process with cosine similarity.
type Memory struct {
	creation *creationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		creation: newCreationRepository(),
	}
}

func (m *Memory) Creation() interfaces.CreationRepository {
	return m.creation
}

func (m *Memory) Close() error {
	return nil
}
