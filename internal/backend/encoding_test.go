package backend

import (
	"bytes"
	"testing"
)

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []byte
	}{
		{"nil is NULL", nil, nil},
		{"string passthrough", "hello", []byte("hello")},
		{"bytes passthrough", []byte("raw"), []byte("raw")},
		{"bool true", true, []byte("t")},
		{"bool false", false, []byte("f")},
		{"int64", int64(42), []byte("42")},
		{"float64", 3.5, []byte("3.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeValue(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeRow(t *testing.T) {
	row := EncodeRow([]any{"a", nil, int64(7)})
	if len(row) != 3 {
		t.Fatalf("len(row) = %d, want 3", len(row))
	}
	if string(row[0]) != "a" {
		t.Errorf("row[0] = %q, want \"a\"", row[0])
	}
	if row[1] != nil {
		t.Errorf("row[1] = %q, want nil (SQL NULL)", row[1])
	}
	if string(row[2]) != "7" {
		t.Errorf("row[2] = %q, want \"7\"", row[2])
	}
}
