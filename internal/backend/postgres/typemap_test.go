package postgres

import "testing"

func TestTypeOID(t *testing.T) {
	tests := []struct {
		pgType string
		want   uint32
	}{
		{"int4", 23},
		{"integer", 23},
		{"int8", 20},
		{"text", 25},
		{"varchar", 1043},
		{"bool", 16},
		{"boolean", 16},
		{"timestamp", 1114},
		{"timestamptz", 1184},
		{"numeric", 1700},
		{"uuid", 2950},
		{"jsonb", 3802},
		{"INT4", 23}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.pgType, func(t *testing.T) {
			if got := TypeOID(tt.pgType); got != tt.want {
				t.Errorf("TypeOID(%q) = %d, want %d", tt.pgType, got, tt.want)
			}
		})
	}
}

func TestTypeOID_Unknown(t *testing.T) {
	if got := TypeOID("geometry"); got != oidText {
		t.Errorf("TypeOID(unknown) = %d, want text OID %d", got, oidText)
	}
}
