package mock

import (
	"encoding/json"
	"testing"

	"github.com/mellanox/resmon/internal/stat"
)

func TestHandleRPCMethodRejectsOddHex(t *testing.T) {
	a := New()
	st := stat.New()
	params, _ := json.Marshal(emadParams{Payload: "abc"})

	_, ok, err := a.HandleRPCMethod("emad", params, st)
	if !ok {
		t.Fatal("want ok=true for a recognized method")
	}
	if err == nil {
		t.Fatal("want error for odd-length hex")
	}
}

func TestHandleRPCMethodRejectsNonHex(t *testing.T) {
	a := New()
	st := stat.New()
	params, _ := json.Marshal(emadParams{Payload: "zz"})

	_, ok, err := a.HandleRPCMethod("emad", params, st)
	if !ok || err == nil {
		t.Fatal("want ok=true, err!=nil for invalid hex")
	}
}

func TestHandleRPCMethodIgnoresOtherMethods(t *testing.T) {
	a := New()
	st := stat.New()

	_, ok, err := a.HandleRPCMethod("ping", nil, st)
	if ok || err != nil {
		t.Fatalf("want ok=false, err=nil for an unrecognized method, got ok=%v err=%v", ok, err)
	}
}
