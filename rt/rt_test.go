// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"niflheim.dev/niflheim/internal/abi"
)

func setup(t *testing.T) {
	t.Helper()
	Init()
	t.Cleanup(func() { current = nil })
}

// --- Scenario 1: no roots reclaim ---

func TestScenarioNoRootsReclaim(t *testing.T) {
	setup(t)
	leaf := abi.NewClassDescriptor(1, "Leaf", 0)
	for i := 0; i < 200; i++ {
		AllocObj(leaf, 8, &abi.Record{Prims: []byte{byte(i)}})
	}
	Collect()
	st := Stats()
	if st.TrackedObjects != 0 || st.LiveBytes != 0 {
		t.Fatalf("after collecting 200 unrooted leaves: tracked=%d live=%d, want 0,0", st.TrackedObjects, st.LiveBytes)
	}
}

// --- Scenario 2: rooted chain survives then reclaims ---

func TestScenarioRootedChainThenReclaim(t *testing.T) {
	setup(t)
	node := abi.NewClassDescriptor(2, "Node", 1)
	f := PushRoots(1, "chain")

	a := AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
	b := AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
	c := AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
	a.Payload.(*abi.Record).Refs[0] = b
	b.Payload.(*abi.Record).Refs[0] = c
	RootSlotStore(f, 0, a)

	Collect()
	if got := Stats().TrackedObjects; got != 3 {
		t.Fatalf("rooted chain: tracked=%d, want 3", got)
	}

	RootSlotStore(f, 0, nil)
	PopRoots()
	Collect()
	if got := Stats().TrackedObjects; got != 0 {
		t.Fatalf("after unrooting chain: tracked=%d, want 0", got)
	}
}

// --- Scenario 3: cycle ---

func TestScenarioCycle(t *testing.T) {
	setup(t)
	node := abi.NewClassDescriptor(3, "Node", 1)
	f := PushRoots(1, "cycle")

	n1 := AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
	n2 := AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
	n1.Payload.(*abi.Record).Refs[0] = n2
	n2.Payload.(*abi.Record).Refs[0] = n1
	RootSlotStore(f, 0, n1)

	Collect()
	if got := Stats().TrackedObjects; got != 2 {
		t.Fatalf("rooted cycle: tracked=%d, want 2", got)
	}

	RootSlotStore(f, 0, nil)
	Collect()
	if got := Stats().TrackedObjects; got != 0 {
		t.Fatalf("unrooted cycle: tracked=%d, want 0 (must not leak)", got)
	}
}

// --- Scenario 4: global root lifecycle ---

func TestScenarioGlobalRootLifecycle(t *testing.T) {
	setup(t)
	leaf := abi.NewClassDescriptor(4, "Leaf", 0)

	var global *abi.Object
	RegisterGlobalRoot(&global)
	RegisterGlobalRoot(&global) // double-register is a no-op

	global = AllocObj(leaf, 8, &abi.Record{})
	Collect()
	if got := Stats().TrackedObjects; got != 1 {
		t.Fatalf("with global root: tracked=%d, want 1", got)
	}

	global = nil
	UnregisterGlobalRoot(&global)
	Collect()
	if got := Stats().TrackedObjects; got != 0 {
		t.Fatalf("after unregistering global: tracked=%d, want 0", got)
	}
}

// --- Scenario 5: threshold trigger ---

func TestScenarioThresholdTrigger(t *testing.T) {
	setup(t)
	leaf := abi.NewClassDescriptor(5, "Leaf", 0)
	sawDrop := false
	for i := 0; i < 5000; i++ {
		AllocObj(leaf, 8, &abi.Record{})
		if Stats().TrackedObjects < int64(i+1) {
			sawDrop = true
		}
	}
	if !sawDrop {
		t.Fatal("expected tracked_object_count to drop below the allocation count at some point (threshold never fired)")
	}
	Collect()
	if got := Stats().TrackedObjects; got != 0 {
		t.Fatalf("final collect: tracked=%d, want 0", got)
	}
}

// --- Scenario 6: reference-array tracing ---

func TestScenarioRefArrayTracing(t *testing.T) {
	setup(t)
	leaf := abi.NewClassDescriptor(6, "Leaf", 0)
	f := PushRoots(1, "refarray")

	arr := RefArrayNew(2)
	RefArraySet(arr, 0, AllocObj(leaf, 8, &abi.Record{}))
	RefArraySet(arr, 1, AllocObj(leaf, 8, &abi.Record{}))
	RootSlotStore(f, 0, arr)

	Collect()
	if got := Stats().TrackedObjects; got != 3 {
		t.Fatalf("rooted ref-array with 2 leaves: tracked=%d, want 3", got)
	}

	RefArraySet(arr, 0, nil)
	Collect()
	if got := Stats().TrackedObjects; got != 2 {
		t.Fatalf("after nulling one slot: tracked=%d, want 2", got)
	}

	RefArraySet(arr, 1, nil)
	Collect()
	if got := Stats().TrackedObjects; got != 1 {
		t.Fatalf("after nulling both slots: tracked=%d, want 1 (array itself)", got)
	}

	RootSlotStore(f, 0, nil)
	Collect()
	if got := Stats().TrackedObjects; got != 0 {
		t.Fatalf("after dropping root: tracked=%d, want 0", got)
	}
}

// --- Scenario 7: slice independence ---

func TestScenarioSliceIndependence(t *testing.T) {
	setup(t)
	f := PushRoots(2, "slice")
	arr := ArrayNew(abi.U8, 4)
	RootSlotStore(f, 0, arr)
	ArraySetU8(arr, 0, 9)
	ArraySetU8(arr, 1, 7)

	s := ArraySlice(arr, abi.U8, 0, 2)
	RootSlotStore(f, 1, s)

	ArraySetU8(arr, 0, 1)
	if got := ArrayGetU8(s, 0); got != 9 {
		t.Fatalf("slice element after source mutation = %d, want 9 (independent copy)", got)
	}
}

// --- Scenario 8: checked cast ---

func TestScenarioCheckedCastNullAndSelf(t *testing.T) {
	setup(t)
	box := BoxI64New(3)
	if got := CheckedCast(nil, abi.BoxDescriptor(abi.I64)); got != nil {
		t.Fatal("CheckedCast(nil, T) != nil")
	}
	if got := CheckedCast(box, abi.BoxDescriptor(abi.I64)); got != box {
		t.Fatal("CheckedCast(obj, type_of(obj)) != obj")
	}
}

func TestScenarioCheckedCastMismatchPanics(t *testing.T) {
	if os.Getenv("NIFLHEIM_RT_TEST_HELPER") == "1" {
		Init()
		box := BoxI64New(3)
		CheckedCast(box, abi.StrDesc)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestScenarioCheckedCastMismatchPanics")
	cmd.Env = append(os.Environ(), "NIFLHEIM_RT_TEST_HELPER=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected the helper process to exit nonzero on a bad cast")
	}
	want := "panic: bad cast (BoxI64 -> Str)"
	if !strings.Contains(string(out), want) {
		t.Fatalf("helper output = %q, want it to contain %q", out, want)
	}
}

func TestScenarioPopRootsUnderflowPanics(t *testing.T) {
	if os.Getenv("NIFLHEIM_RT_TEST_HELPER") == "1" {
		Init()
		PopRoots()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestScenarioPopRootsUnderflowPanics")
	cmd.Env = append(os.Environ(), "NIFLHEIM_RT_TEST_HELPER=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected the helper process to exit nonzero on pop-roots underflow")
	}
	want := "panic: pop_roots: pop on empty shadow stack"
	if !strings.Contains(string(out), want) {
		t.Fatalf("helper output = %q, want it to contain %q", out, want)
	}
}

func TestRegisterGlobalRootRejectsNilSlot(t *testing.T) {
	if os.Getenv("NIFLHEIM_RT_TEST_HELPER") == "1" {
		Init()
		RegisterGlobalRoot(nil)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestRegisterGlobalRootRejectsNilSlot")
	cmd.Env = append(os.Environ(), "NIFLHEIM_RT_TEST_HELPER=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected the helper process to exit nonzero on a nil global root slot")
	}
	want := "panic: gc_register_global_root: nil slot"
	if !strings.Contains(string(out), want) {
		t.Fatalf("helper output = %q, want it to contain %q", out, want)
	}
}

// --- Round-trip properties ---

func TestRoundTripStr(t *testing.T) {
	setup(t)
	b := []byte("niflheim")
	s := StrFromBytes(b, int64(len(b)))
	if StrLen(s) != int64(len(b)) {
		t.Fatalf("StrLen = %d, want %d", StrLen(s), len(b))
	}
	for i, want := range b {
		if got := StrGetU8(s, int64(i)); got != want {
			t.Fatalf("StrGetU8(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestRoundTripBox(t *testing.T) {
	setup(t)
	if got := BoxI64Get(BoxI64New(-7)); got != -7 {
		t.Fatalf("BoxI64 round trip = %d, want -7", got)
	}
	if got := BoxU64Get(BoxU64New(42)); got != 42 {
		t.Fatalf("BoxU64 round trip = %d, want 42", got)
	}
	if got := BoxU8Get(BoxU8New(200)); got != 200 {
		t.Fatalf("BoxU8 round trip = %d, want 200", got)
	}
	if got := BoxBoolGet(BoxBoolNew(true)); got != true {
		t.Fatal("BoxBool round trip = false, want true")
	}
	if got := BoxDoubleGet(BoxDoubleNew(3.5)); got != 3.5 {
		t.Fatalf("BoxDouble round trip = %v, want 3.5", got)
	}
}

func TestRoundTripArray(t *testing.T) {
	setup(t)
	a := ArrayNew(abi.I64, 4)
	ArraySetI64(a, 2, 99)
	if got := ArrayGetI64(a, 2); got != 99 {
		t.Fatalf("ArrayGetI64(2) = %d, want 99", got)
	}
}

func TestRoundTripVec(t *testing.T) {
	setup(t)
	f := PushRoots(6, "vec")
	v := VecNew()
	RootSlotStore(f, 0, v)
	leaf := abi.NewClassDescriptor(7, "Leaf", 0)
	values := make([]*abi.Object, 5)
	for i := range values {
		values[i] = AllocObj(leaf, 8, &abi.Record{Prims: []byte{byte(i)}})
		RootSlotStore(f, i+1, values[i])
		VecPush(v, values[i])
	}
	if got := VecLen(v); got != int64(len(values)) {
		t.Fatalf("VecLen = %d, want %d", got, len(values))
	}
	for i, want := range values {
		if got := VecGet(v, int64(i)); got != want {
			t.Fatalf("VecGet(%d) = %v, want %v", i, got, want)
		}
	}
}

// --- Universal invariants ---

func TestInvariantAllocatedGELive(t *testing.T) {
	setup(t)
	leaf := abi.NewClassDescriptor(8, "Leaf", 0)
	for i := 0; i < 10; i++ {
		AllocObj(leaf, 8, &abi.Record{})
	}
	st := Stats()
	if st.AllocatedBytes < st.LiveBytes {
		t.Fatalf("allocated=%d < live=%d", st.AllocatedBytes, st.LiveBytes)
	}
	Collect()
	st = Stats()
	if st.AllocatedBytes != st.LiveBytes {
		t.Fatalf("immediately after collect: allocated=%d != live=%d", st.AllocatedBytes, st.LiveBytes)
	}
}

func TestInvariantThresholdFloor(t *testing.T) {
	setup(t)
	Collect()
	if st := Stats(); st.NextGCThreshold < 64*1024 {
		t.Fatalf("next_gc_threshold = %d, want >= 64KiB floor", st.NextGCThreshold)
	}
}

func TestShutdownRequiresBalancedStack(t *testing.T) {
	setup(t)
	PushRoots(1, "unbalanced")
	defer func() {
		if recover() == nil {
			t.Fatal("Shutdown with an unpopped frame did not panic")
		}
	}()
	Shutdown()
}
