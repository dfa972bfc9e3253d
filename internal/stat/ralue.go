package stat

// RalueUpdate is insert-or-no-op: RALUE write/update register ops are
// idempotent in the driver's protocol (spec.md §4.1). If the key is
// absent, it is inserted and the charged counter incremented by
// desc.Slots. If present, the call succeeds without changing anything.
func (s *Store) RalueUpdate(key RalueKey, desc SlotAlloc) error {
	if _, ok := s.ralue[key]; ok {
		return nil
	}
	s.ralue[key] = desc
	s.charge(desc.Counter, desc.Slots)
	return nil
}

// RalueDelete removes a live RALUE entry and decrements its counter.
// Returns ErrNotFound if the key is absent.
func (s *Store) RalueDelete(key RalueKey) error {
	desc, ok := s.ralue[key]
	if !ok {
		return ErrNotFound
	}
	delete(s.ralue, key)
	s.uncharge(desc.Counter, desc.Slots)
	return nil
}
