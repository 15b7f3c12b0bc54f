// Package snowflake implements the Backend interface (C7) against Snowflake
// using the gosnowflake driver. Because the client always sees a
// Postgres-shaped response (§4.6, §9), every Snowflake native type is
// mapped to the closest Postgres wire OID rather than reported as-is.
package snowflake

import "strings"

// Postgres OIDs this mapping can produce. Kept local (rather than shared
// with the postgres package) since only a handful of coarse buckets apply
// here — grounded on the original data store's map_type_to_pg.
const (
	oidBool        = 16
	oidInt8        = 20
	oidText        = 25
	oidFloat8      = 701
	oidDate        = 1082
	oidTimestamp   = 1114
	oidTimestamptz = 1184
	oidJsonb       = 3802
)

// TypeOID maps a Snowflake column type name (as reported by gosnowflake,
// e.g. "NUMBER", "VARCHAR", "TIMESTAMP_NTZ") to a Postgres wire OID.
// Unrecognized types fall back to TEXT.
func TypeOID(snowflakeType string) uint32 {
	switch strings.ToUpper(snowflakeType) {
	case "NUMBER", "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT":
		return oidInt8
	case "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION", "REAL":
		return oidFloat8
	case "VARCHAR", "CHAR", "CHARACTER", "STRING", "TEXT":
		return oidText
	case "BOOLEAN":
		return oidBool
	case "DATE":
		return oidDate
	case "TIMESTAMP_NTZ", "TIMESTAMP":
		return oidTimestamp
	case "TIMESTAMP_TZ", "TIMESTAMP_LTZ":
		return oidTimestamptz
	case "VARIANT", "OBJECT", "ARRAY":
		return oidJsonb
	default:
		return oidText
	}
}
