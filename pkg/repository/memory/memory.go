package memory

import (
	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
)

// Memory is the in-process repository backend, used for development and tests
type Memory struct {
	memory  *memoryStore
	contact *contactStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	idx := newIndex()
	return &Memory{
		memory:  &memoryStore{idx: idx},
		contact: &contactStore{idx: idx},
	}
}

func (m *Memory) Memory() interfaces.MemoryStore {
	return m.memory
}

func (m *Memory) Contact() interfaces.ContactStore {
	return m.contact
}

func (m *Memory) Close() error {
	return nil
}
