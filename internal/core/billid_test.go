package core

import "testing"

func TestCanonicalBillID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "already canonical", input: "HF 1234", want: "HF 1234", ok: true},
		{name: "lowercase", input: "hf 1234", want: "HF 1234", ok: true},
		{name: "no space", input: "HF1234", want: "HF 1234", ok: true},
		{name: "extra spaces", input: "  SF   21 ", want: "SF 21", ok: true},
		{name: "leading zeros", input: "HF 0042", want: "HF 42", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "number only", input: "1234", ok: false},
		{name: "letters only", input: "HF", ok: false},
		{name: "zero number", input: "HF 0", ok: false},
		{name: "trailing junk", input: "HF 1234 extra", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalBillID(tt.input)
			if ok != tt.ok {
				t.Fatalf("CanonicalBillID(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("CanonicalBillID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
