package storage

// MemStore is an in-memory Storer used by tests and by callers that have no
// need for persistence.
type MemStore[T ValidatingSpec] struct {
	records map[string]T
}

func NewMemStore[T ValidatingSpec]() *MemStore[T] {
	return &MemStore[T]{
		records: map[string]T{},
	}
}

func (s *MemStore[T]) Save(id string, spec T) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.records[id] = spec
	return nil
}

func (s *MemStore[T]) Get(id string) T {
	return s.records[id]
}

func (s *MemStore[T]) GetAll() map[string]T {
	out := make(map[string]T, len(s.records))
	for id, r := range s.records {
		out[id] = r
	}
	return out
}
