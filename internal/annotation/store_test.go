package annotation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"humspine/internal/annotation"
)

func TestStoreTypedAccess(t *testing.T) {
	var s annotation.Store
	k := annotation.NewKey("auto", "link", "nextNonNull")
	s.Set(k, []int{3, 4})

	got, ok := annotation.Get[[]int](&s, k)
	if !ok {
		t.Fatal("expected value")
	}
	if diff := cmp.Diff([]int{3, 4}, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if _, ok := annotation.Get[string](&s, k); ok {
		t.Fatal("wrong type should not match")
	}
	if got := annotation.GetOr(&s, annotation.NewKey("auto", "link", "missing"), 7); got != 7 {
		t.Fatalf("GetOr fallback = %d, want 7", got)
	}
}

func TestTypedKeys(t *testing.T) {
	var s annotation.Store
	flag := annotation.NewTypedKey[bool]("auto", "editorial", "accidental")
	label := annotation.NewTypedKey[string]("LO", "N", "vis")

	annotation.Put(&s, flag, true)
	annotation.PutWithOrigin(&s, label, "3", 9)

	if got, ok := annotation.Lookup(&s, flag); !ok || !got {
		t.Fatalf("Lookup(flag) = %v, %v", got, ok)
	}
	if got, ok := annotation.Lookup(&s, label); !ok || got != "3" {
		t.Fatalf("Lookup(label) = %q, %v", got, ok)
	}
	if origin, ok := s.Origin(label.Key); !ok || origin != 9 {
		t.Fatalf("Origin = %d, %v; want 9, true", origin, ok)
	}

	s.Set(flag.Key, "yes")
	if _, ok := annotation.Lookup(&s, flag); ok {
		t.Fatal("an untyped write of the wrong type should read as missing")
	}
}

func TestStoreOriginAndDelete(t *testing.T) {
	var s annotation.Store
	k := annotation.ParseKey("LO:N:vis")
	s.SetWithOrigin(k, "3", 12)
	if origin, ok := s.Origin(k); !ok || origin != 12 {
		t.Fatalf("Origin = %d, %v; want 12, true", origin, ok)
	}
	s.Set(k, "4")
	if _, ok := s.Origin(k); ok {
		t.Fatal("Set should drop origin")
	}
	s.Delete(k)
	if s.Has(k) {
		t.Fatal("key should be gone")
	}
}

func TestStoreKeysSortedAndNamespaceDelete(t *testing.T) {
	var s annotation.Store
	s.Set(annotation.ParseKey("b:x:1"), true)
	s.Set(annotation.ParseKey("a:x:2"), true)
	s.Set(annotation.ParseKey("a:y:3"), true)

	want := []annotation.Key{
		{Namespace: "a", Category: "x", Name: "2"},
		{Namespace: "a", Category: "y", Name: "3"},
		{Namespace: "b", Category: "x", Name: "1"},
	}
	if diff := cmp.Diff(want, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := s.KeysIn("a", "x"); len(got) != 1 || got[0].Name != "2" {
		t.Fatalf("KeysIn = %v", got)
	}
	s.DeleteNamespace("a")
	if s.Len() != 1 {
		t.Fatalf("Len after DeleteNamespace = %d, want 1", s.Len())
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]annotation.Key{
		"vis":      {Name: "vis"},
		"N:vis":    {Category: "N", Name: "vis"},
		"LO:N:vis": {Namespace: "LO", Category: "N", Name: "vis"},
		"LO:N:a:b": {Namespace: "LO", Category: "N", Name: "a:b"},
	}
	for in, want := range tests {
		if got := annotation.ParseKey(in); got != want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestNilStoreReads(t *testing.T) {
	var s *annotation.Store
	if s.Has(annotation.Key{Name: "x"}) || s.Len() != 0 || s.Keys() != nil {
		t.Fatal("nil store should read as empty")
	}
}
