package snowflake

import "testing"

func TestTypeOID(t *testing.T) {
	tests := []struct {
		snowflakeType string
		want          uint32
	}{
		{"NUMBER", oidInt8},
		{"INTEGER", oidInt8},
		{"FLOAT", oidFloat8},
		{"VARCHAR", oidText},
		{"STRING", oidText},
		{"BOOLEAN", oidBool},
		{"DATE", oidDate},
		{"TIMESTAMP_NTZ", oidTimestamp},
		{"TIMESTAMP_TZ", oidTimestamptz},
		{"VARIANT", oidJsonb},
		{"OBJECT", oidJsonb},
		{"number", oidInt8}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.snowflakeType, func(t *testing.T) {
			if got := TypeOID(tt.snowflakeType); got != tt.want {
				t.Errorf("TypeOID(%q) = %d, want %d", tt.snowflakeType, got, tt.want)
			}
		})
	}
}

func TestTypeOID_Unknown(t *testing.T) {
	if got := TypeOID("GEOGRAPHY"); got != oidText {
		t.Errorf("TypeOID(unknown) = %d, want text OID %d", got, oidText)
	}
}
