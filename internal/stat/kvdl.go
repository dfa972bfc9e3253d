package stat

// KvdlAlloc installs desc.Slots per-index entries at consecutive offsets
// starting at base, each charging one slot of desc.Counter (the reference
// implementation's per-slot KVDL keying, spec.md §9 design notes). The
// allocation is atomic: on the i-th collision, the i-1 already-installed
// entries from this call are undone and ErrAllocFailed is returned
// (spec.md §3, invariant 4).
func (s *Store) KvdlAlloc(base uint32, desc SlotAlloc) error {
	installed := make([]uint32, 0, desc.Slots)
	for n := uint32(0); n < desc.Slots; n++ {
		idx := base + n
		if _, ok := s.kvdl[idx]; ok {
			for _, i := range installed {
				delete(s.kvdl, i)
				s.uncharge(desc.Counter, 1)
			}
			return ErrAllocFailed
		}
		s.kvdl[idx] = SlotAlloc{Slots: 1, Counter: desc.Counter}
		s.charge(desc.Counter, 1)
		installed = append(installed, idx)
	}
	return nil
}

// KvdlFree removes the per-index entries for desc.Slots consecutive
// offsets starting at base. It is best-effort: it continues through the
// whole range even if some slots were already absent, and reports
// ErrNotFound if any were (spec.md §4.1 free semantics, §7 "no partial-
// state leaks" — the range present is always fully removed).
func (s *Store) KvdlFree(base uint32, desc SlotAlloc) error {
	var missing bool
	for n := uint32(0); n < desc.Slots; n++ {
		idx := base + n
		entry, ok := s.kvdl[idx]
		if !ok {
			missing = true
			continue
		}
		delete(s.kvdl, idx)
		s.uncharge(entry.Counter, entry.Slots)
	}
	if missing {
		return ErrNotFound
	}
	return nil
}
