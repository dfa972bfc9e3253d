package stat

// Ptce3Alloc installs a TCAM rule entry. desc is expected to be the owning
// PTAR's descriptor (spec.md §3, invariant 3): the caller looks it up via
// PtarGet before calling this. Insert-on-existing is a no-op success.
func (s *Store) Ptce3Alloc(key Ptce3Key, desc SlotAlloc) error {
	if _, ok := s.ptce3[key]; ok {
		return nil
	}
	s.ptce3[key] = desc
	s.charge(desc.Counter, desc.Slots)
	return nil
}

// Ptce3Free removes a live TCAM rule. Returns ErrNotFound if absent.
func (s *Store) Ptce3Free(key Ptce3Key) error {
	desc, ok := s.ptce3[key]
	if !ok {
		return ErrNotFound
	}
	delete(s.ptce3, key)
	s.uncharge(desc.Counter, desc.Slots)
	return nil
}
