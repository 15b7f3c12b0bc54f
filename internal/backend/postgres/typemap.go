// Package postgres implements the Backend interface (C7) against a real
// PostgreSQL server using pgx.
package postgres

import "strings"

// Well-known PostgreSQL type OIDs, per pg_type.dat. Only the types the
// original postgres_type.rs enumerates are mapped; anything else falls
// back to TEXT so the client can always render it.
const (
	oidBool        = 16
	oidBytea       = 17
	oidName        = 19
	oidInt8        = 20
	oidInt2        = 21
	oidInt4        = 23
	oidText        = 25
	oidOid         = 26
	oidXml         = 142
	oidJson        = 114
	oidPoint       = 600
	oidBox         = 603
	oidLine        = 628
	oidCidr        = 650
	oidFloat4      = 700
	oidFloat8      = 701
	oidCircle      = 718
	oidMacaddr8    = 774
	oidMoney       = 790
	oidMacaddr     = 829
	oidInet        = 869
	oidBpchar      = 1042
	oidVarchar     = 1043
	oidDate        = 1082
	oidTime        = 1084
	oidTimestamp   = 1114
	oidTimestamptz = 1184
	oidInterval    = 1186
	oidTimetz      = 1266
	oidBit         = 1560
	oidNumeric     = 1700
	oidUuid        = 2950
	oidPgLsn       = 3220
	oidTsvector    = 3614
	oidTsquery     = 3615
	oidJsonb       = 3802
)

var typeOIDs = map[string]uint32{
	"serial":            oidInt4,
	"bigserial":         oidInt8,
	"smallserial":       oidInt2,
	"int2":              oidInt2,
	"smallint":          oidInt2,
	"int4":              oidInt4,
	"integer":           oidInt4,
	"int8":              oidInt8,
	"bigint":            oidInt8,
	"numeric":           oidNumeric,
	"decimal":           oidNumeric,
	"float4":            oidFloat4,
	"real":              oidFloat4,
	"float8":            oidFloat8,
	"double precision":  oidFloat8,
	"money":             oidMoney,
	"bytea":             oidBytea,
	"varchar":           oidVarchar,
	"character varying": oidVarchar,
	"bpchar":            oidBpchar,
	"char":              oidBpchar,
	"character":         oidBpchar,
	"text":              oidText,
	"cidr":              oidCidr,
	"inet":              oidInet,
	"macaddr":           oidMacaddr,
	"macaddr8":          oidMacaddr8,
	"bit":               oidBit,
	"uuid":              oidUuid,
	"xml":               oidXml,
	"json":              oidJson,
	"jsonb":             oidJsonb,
	"tsvector":          oidTsvector,
	"tsquery":           oidTsquery,
	"timestamp":         oidTimestamp,
	"timestamptz":       oidTimestamptz,
	"date":              oidDate,
	"time":              oidTime,
	"timetz":            oidTimetz,
	"interval":          oidInterval,
	"point":             oidPoint,
	"line":              oidLine,
	"box":               oidBox,
	"circle":            oidCircle,
	"oid":               oidOid,
	"pg_lsn":            oidPgLsn,
	"bool":              oidBool,
	"boolean":           oidBool,
	"name":              oidName,
}

// TypeOID maps a PostgreSQL type name (as reported by the driver, e.g. from
// pgx's DatabaseTypeName) to its wire OID. Unknown types map to TEXT — the
// client can always render text (§4.6 only ever sends text-format values).
func TypeOID(pgType string) uint32 {
	if oid, ok := typeOIDs[strings.ToLower(pgType)]; ok {
		return oid
	}
	return oidText
}
