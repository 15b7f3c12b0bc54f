package backend

import (
	"fmt"
	"strconv"
	"time"
)

// EncodeValue renders a single Go value scanned from a driver's database/sql
// result into the wire's text-format column value: nil means SQL NULL,
// otherwise the UTF-8 text the client's row-description says to expect
// (§4.6: "NULL: length -1. Otherwise: 4-byte big-endian length, then the
// value as UTF-8 text" — the length/NULL envelope itself is written by the
// wire server; this only produces the bytes or nil that it envelopes).
func EncodeValue(v any) []byte {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	case bool:
		if t {
			return []byte("t")
		}
		return []byte("f")
	case int64:
		return []byte(strconv.FormatInt(t, 10))
	case int32:
		return []byte(strconv.FormatInt(int64(t), 10))
	case int:
		return []byte(strconv.Itoa(t))
	case float64:
		return []byte(strconv.FormatFloat(t, 'g', -1, 64))
	case float32:
		return []byte(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case time.Time:
		return []byte(t.Format("2006-01-02 15:04:05.999999-07"))
	default:
		return []byte(fmt.Sprintf("%v", t))
	}
}

// EncodeRow converts a slice of scanned driver values into a wire Row.
func EncodeRow(values []any) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = EncodeValue(v)
	}
	return row
}
