package metadata

import (
	"encoding/json"
	"testing"
)

type point struct{ x, y int }

func (p point) AsMap() map[string]any { return map[string]any{"x": p.x, "y": p.y} }

func TestEncodeEmptyDocument(t *testing.T) {
	for _, doc := range []Document{nil, {}} {
		got, err := Encode(doc)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got != "{}" {
			t.Fatalf("expected {}, got %q", got)
		}
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	got, err := Encode(Document{"note": "<a&b>"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "{\n    \"note\": \"<a&b>\"\n}"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, payload := range []string{"", "[1,2]", `"text"`, "{} {}", "{"} {
		if _, err := Decode(payload); err == nil {
			t.Fatalf("expected error for %q", payload)
		}
	}
}

func TestDecodeNullIsEmpty(t *testing.T) {
	doc, err := Decode("null")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc == nil || len(doc) != 0 {
		t.Fatalf("expected empty document, got %#v", doc)
	}
}

func TestFlattenNested(t *testing.T) {
	in := map[string]any{
		"points": []point{{1, 2}},
		"byName": map[string]point{"a": {3, 4}},
		"nested": Document{"p": point{5, 6}},
		"empty":  []string(nil),
	}
	out, err := json.Marshal(flatten(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"byName":{"a":{"x":3,"y":4}},"empty":[],"nested":{"p":{"x":5,"y":6}},"points":[{"x":1,"y":2}]}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestValueRoundTrip(t *testing.T) {
	encoded, err := EncodeValue([]any{point{1, 2}, "x"})
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if encoded != `[{"x":1,"y":2},"x"]` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	decoded, err := DecodeValue(encoded)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	list, ok := decoded.([]any)
	if !ok || len(list) != 2 || list[1] != "x" {
		t.Fatalf("unexpected decoded value %#v", decoded)
	}
}

func TestDecodeValueRejectsTrailingData(t *testing.T) {
	for _, input := range []string{"1 2", "v1", ""} {
		if _, err := DecodeValue(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
