package spec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectSetPreservesOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zebra", "z")
	obj.Set("alpha", "a")
	obj.Set("mango", "m")

	want := []string{"zebra", "alpha", "mango"}
	if diff := cmp.Diff(want, obj.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	// Re-setting keeps the original position.
	obj.Set("alpha", "a2")
	if diff := cmp.Diff(want, obj.Keys()); diff != "" {
		t.Errorf("Keys() after re-set mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.Get("alpha"); v != "a2" {
		t.Errorf("Get(alpha) = %v, want a2", v)
	}
}

func TestObjectUnmarshalOrder(t *testing.T) {
	input := `{"2":1,"10":2,"1":3,"banana":4}`

	obj := NewObject()
	if err := json.Unmarshal([]byte(input), obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"2", "10", "1", "banana"}
	if diff := cmp.Diff(want, obj.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "flat scalars",
			input: `{"b":"x","a":1,"c":true,"d":null}`,
		},
		{
			name:  "nested objects keep order",
			input: `{"outer":{"z":1,"a":{"y":2,"b":3}},"second":"v"}`,
		},
		{
			name:  "arrays with mixed values",
			input: `{"list":[1,"two",{"k":3},[4]],"tail":5}`,
		},
		{
			name:  "unknown fields survive untouched",
			input: `{"type":"graph","dot":"digraph {}","custom_knob":42,"notes":["a","b"]}`,
		},
		{
			name:  "integers stay integers",
			input: `{"row":1,"column":2,"big":1234567890123}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject()
			if err := json.Unmarshal([]byte(tt.input), obj); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			out, err := json.Marshal(obj)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.input, string(out)); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestObjectUnmarshalRejectsNonObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "array root", input: `[1,2,3]`},
		{name: "string root", input: `"hello"`},
		{name: "number root", input: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject()
			if err := json.Unmarshal([]byte(tt.input), obj); err == nil {
				t.Error("Unmarshal() error = nil, want non-nil")
			}
		})
	}
}

func TestObjectAccessors(t *testing.T) {
	obj := NewObject()
	nested := NewObject()
	nested.Set("inner", "value")
	obj.Set("name", "fig1")
	obj.Set("child", nested)
	obj.Set("count", json.Number("3"))

	if s, ok := obj.String("name"); !ok || s != "fig1" {
		t.Errorf("String(name) = %v, %v, want fig1, true", s, ok)
	}
	if _, ok := obj.String("child"); ok {
		t.Error("String(child) ok = true, want false for nested object")
	}
	if child, ok := obj.Object("child"); !ok || !child.Has("inner") {
		t.Errorf("Object(child) = %v, %v", child, ok)
	}
	if _, ok := obj.Object("name"); ok {
		t.Error("Object(name) ok = true, want false for string")
	}
	if !obj.Has("count") {
		t.Error("Has(count) = false, want true")
	}
	if obj.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
	if obj.Len() != 3 {
		t.Errorf("Len() = %d, want 3", obj.Len())
	}
}

func TestObjectWriteIndented(t *testing.T) {
	obj := NewObject()
	obj.Set("b", "second")
	obj.Set("a", "first")

	var buf bytes.Buffer
	if err := obj.WriteIndented(&buf); err != nil {
		t.Fatalf("WriteIndented() error = %v", err)
	}

	out := buf.String()
	if out[len(out)-1] != '\n' {
		t.Error("output missing trailing newline")
	}
	// Indented output must keep insertion order.
	if bytes.Index(buf.Bytes(), []byte(`"b"`)) > bytes.Index(buf.Bytes(), []byte(`"a"`)) {
		t.Errorf("indented output lost key order:\n%s", out)
	}
}
