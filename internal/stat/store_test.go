package stat

import (
	"errors"
	"testing"

	"github.com/mellanox/resmon/internal/counter"
)

func TestRalueUpdateDeleteRoundTrip(t *testing.T) {
	s := New()
	key := RalueKey{Protocol: ProtocolIPv4, PrefixLen: 24, VirtualRouter: 0}
	desc := SlotAlloc{Slots: 1, Counter: counter.LPMIPv4}

	if err := s.RalueUpdate(key, desc); err != nil {
		t.Fatalf("update: %v", err)
	}
	before := s.CountersSnapshot()
	if before.Values[counter.LPMIPv4] != 1 || before.Total != 1 {
		t.Fatalf("after insert: %+v", before)
	}

	if err := s.RalueDelete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after := s.CountersSnapshot()
	if after.Total != 0 {
		t.Fatalf("after delete, TOTAL should be 0, got %+v", after)
	}
}

func TestRalueDeleteMissingIsNotFound(t *testing.T) {
	s := New()
	err := s.RalueDelete(RalueKey{Protocol: ProtocolIPv4, PrefixLen: 24})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRalueUpdateIdempotent(t *testing.T) {
	s := New()
	key := RalueKey{Protocol: ProtocolIPv6, PrefixLen: 80}
	desc := SlotAlloc{Slots: 2, Counter: counter.LPMIPv6}

	if err := s.RalueUpdate(key, desc); err != nil {
		t.Fatal(err)
	}
	once := s.CountersSnapshot()

	if err := s.RalueUpdate(key, desc); err != nil {
		t.Fatal(err)
	}
	twice := s.CountersSnapshot()

	if once != twice {
		t.Fatalf("repeated insert changed counters: %+v vs %+v", once, twice)
	}
	if twice.Values[counter.LPMIPv6] != 2 {
		t.Fatalf("want 2 slots charged once, got %d", twice.Values[counter.LPMIPv6])
	}
}

func TestPtarPtce3Inheritance(t *testing.T) {
	s := New()
	region := PtarKey{TCAMRegionInfo: [16]byte{1, 2, 3}}
	regionDesc := SlotAlloc{Slots: 2, Counter: counter.ATCAM}

	if err := s.PtarAlloc(region, regionDesc); err != nil {
		t.Fatal(err)
	}

	got, err := s.PtarGet(region)
	if err != nil {
		t.Fatal(err)
	}
	if got != regionDesc {
		t.Fatalf("PtarGet mismatch: %+v vs %+v", got, regionDesc)
	}

	rule := Ptce3Key{TCAMRegionInfo: region.TCAMRegionInfo, ERPID: 3}
	if err := s.Ptce3Alloc(rule, got); err != nil {
		t.Fatal(err)
	}

	snap := s.CountersSnapshot()
	if snap.Values[counter.ATCAM] != 4 { // 2 for region + 2 inherited by rule
		t.Fatalf("want ATCAM=4, got %d", snap.Values[counter.ATCAM])
	}

	if err := s.Ptce3Free(rule); err != nil {
		t.Fatal(err)
	}
	if err := s.PtarFree(region); err != nil {
		t.Fatal(err)
	}
	final := s.CountersSnapshot()
	if final.Total != 0 {
		t.Fatalf("want TOTAL=0 after round trip, got %+v", final)
	}
}

func TestKvdlAllocAtomicRollback(t *testing.T) {
	s := New()
	// Occupy index 10 out of band so a 5-slot alloc starting at 8 collides.
	if err := s.KvdlAlloc(10, SlotAlloc{Slots: 1, Counter: counter.ACTSET}); err != nil {
		t.Fatal(err)
	}
	before := s.CountersSnapshot()

	err := s.KvdlAlloc(8, SlotAlloc{Slots: 5, Counter: counter.ACTSET})
	if !errors.Is(err, ErrAllocFailed) {
		t.Fatalf("want ErrAllocFailed, got %v", err)
	}

	after := s.CountersSnapshot()
	if before != after {
		t.Fatalf("failed alloc must not change counters: before=%+v after=%+v", before, after)
	}
	if _, ok := s.kvdl[8]; ok {
		t.Fatal("index 8 should not have been left installed")
	}
}

func TestKvdlFreeBestEffort(t *testing.T) {
	s := New()
	if err := s.KvdlAlloc(100, SlotAlloc{Slots: 3, Counter: counter.ACTSET}); err != nil {
		t.Fatal(err)
	}
	// Remove the middle slot out of band to simulate a gap.
	delete(s.kvdl, 101)
	s.uncharge(counter.ACTSET, 1)

	err := s.KvdlFree(100, SlotAlloc{Slots: 3, Counter: counter.ACTSET})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound reported for the gap, got %v", err)
	}
	final := s.CountersSnapshot()
	if final.Total != 0 {
		t.Fatalf("want TOTAL=0 after best-effort free of the whole range, got %+v", final)
	}
}

func TestRauhtRoundTrip(t *testing.T) {
	s := New()
	key := RauhtKey{Protocol: ProtocolIPv6, RIF: 0x10}
	desc := SlotAlloc{Slots: 2, Counter: counter.HostTabIPv6}

	if err := s.RauhtUpdate(key, desc); err != nil {
		t.Fatal(err)
	}
	if err := s.RauhtDelete(key); err != nil {
		t.Fatal(err)
	}
	final := s.CountersSnapshot()
	if final.Total != 0 {
		t.Fatalf("want TOTAL=0, got %+v", final)
	}
}
