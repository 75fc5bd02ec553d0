package answer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreWith_CopyOnWrite(t *testing.T) {
	base := NewStore(nil)
	next := base.With("fullName", Text("Jane"))

	if _, ok := base.Get("fullName"); ok {
		t.Fatalf("With mutated the receiver")
	}
	got, ok := next.Get("fullName")
	if !ok || got != Text("Jane") {
		t.Fatalf("expected stored answer, got %#v", got)
	}

	overwritten := next.With("fullName", Text("Janet"))
	if v, _ := next.Get("fullName"); v != Text("Jane") {
		t.Fatalf("overwrite leaked into previous snapshot: %v", v)
	}
	if v, _ := overwritten.Get("fullName"); v != Text("Janet") {
		t.Fatalf("expected overwrite, got %v", v)
	}
}

func TestStoreJSON_PreservesKinds(t *testing.T) {
	store := NewStore(map[string]Value{
		"fullName":    Text("Jane Doe"),
		"hasChildren": Bool(false),
	})

	payload, err := json.Marshal(store)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Store
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{"fullName": "Jane Doe", "hasChildren": false}
	if diff := cmp.Diff(want, decoded.Map()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
	if v, _ := decoded.Get("hasChildren"); v.Kind() != KindBool {
		t.Fatalf("expected bool kind after round trip, got %s", v.Kind())
	}
}

func TestFromAny(t *testing.T) {
	if _, err := FromAny(3.5); err == nil {
		t.Fatalf("expected numbers to be rejected")
	}
	v, err := FromAny(true)
	if err != nil || v != Bool(true) {
		t.Fatalf("unexpected bool conversion: %v %v", v, err)
	}
	v, err = FromAny(nil)
	if err != nil || !v.IsZero() {
		t.Fatalf("expected zero value for nil, got %v %v", v, err)
	}
}
