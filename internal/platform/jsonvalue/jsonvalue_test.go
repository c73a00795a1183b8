package jsonvalue

import (
	"encoding/json"
	"testing"
)

func TestInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want *int
	}{
		{name: "float", in: float64(6), want: intPtr(6)},
		{name: "zero stays zero", in: float64(0), want: intPtr(0)},
		{name: "go int", in: 3, want: intPtr(3)},
		{name: "numeric string", in: " 12 ", want: intPtr(12)},
		{name: "json number", in: json.Number("7"), want: intPtr(7)},
		{name: "fraction", in: 2.5, want: nil},
		{name: "null", in: nil, want: nil},
		{name: "word", in: "n/a", want: nil},
		{name: "bool", in: true, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Int(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got=%d", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("expected %d, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("unexpected value: got=%d want=%d", *got, *tc.want)
			}
		})
	}
}

func TestFloatTextBool(t *testing.T) {
	t.Parallel()

	if got := Float("1.25"); got == nil || *got != 1.25 {
		t.Fatalf("unexpected float from string: %v", got)
	}
	if got := Float(nil); got != nil {
		t.Fatalf("expected nil float, got=%v", *got)
	}
	if got := Text(float64(4.5)); got == nil || *got != "4.5" {
		t.Fatalf("unexpected text from float: %v", got)
	}
	if got := Text(""); got == nil || *got != "" {
		t.Fatalf("empty string must stay an empty string")
	}
	if got := Text(map[string]any{}); got != nil {
		t.Fatalf("object should not coerce to text")
	}
	if got := Bool(false); got == nil || *got {
		t.Fatalf("unexpected bool: %v", got)
	}
	if got := Bool(float64(1)); got != nil {
		t.Fatalf("numbers should not coerce to bool")
	}
}

func TestArrayAndObject(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"matrix": []any{map[string]any{"web_name": "Saka"}},
		"bad":    "not-a-list",
	}
	if got := Array(doc, "matrix"); len(got) != 1 {
		t.Fatalf("unexpected matrix len: got=%d want=1", len(got))
	}
	if got := Array(doc, "missing"); len(got) != 0 {
		t.Fatalf("missing key should yield no items")
	}
	if got := Array(doc, "bad"); len(got) != 0 {
		t.Fatalf("non-array should yield no items")
	}
	if Object(doc["bad"]) != nil {
		t.Fatalf("string is not an object")
	}
}

func intPtr(v int) *int { return &v }
