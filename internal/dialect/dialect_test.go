package dialect

import "testing"

func TestFor_Postgres_IdentityMapping(t *testing.T) {
	d := For("postgres")
	if d.DialectHandle() != Postgres {
		t.Errorf("DialectHandle() = %v, want Postgres", d.DialectHandle())
	}
	if _, ok := d.MapFunction("now()"); ok {
		t.Error("Postgres dialect must pass now() through unchanged")
	}
}

func TestFor_Snowflake_MapsNow(t *testing.T) {
	d := For("snowflake")
	if d.DialectHandle() != Snowflake {
		t.Errorf("DialectHandle() = %v, want Snowflake", d.DialectHandle())
	}
	mapped, ok := d.MapFunction("now()")
	if !ok || mapped != "CURRENT_TIMESTAMP()" {
		t.Errorf("MapFunction(now()) = (%q, %v), want (CURRENT_TIMESTAMP(), true)", mapped, ok)
	}
}

func TestFor_Snowflake_PassesThroughUnknownFunction(t *testing.T) {
	d := For("snowflake")
	if _, ok := d.MapFunction("coalesce(a, b)"); ok {
		t.Error("unmapped functions must pass through unchanged")
	}
}

func TestFor_UnknownDriverFallsBackToPostgres(t *testing.T) {
	d := For("bogus")
	if d.DialectHandle() != Postgres {
		t.Errorf("DialectHandle() = %v, want Postgres fallback", d.DialectHandle())
	}
}

func TestFor_CaseInsensitive(t *testing.T) {
	d := For("SNOWFLAKE")
	if d.DialectHandle() != Snowflake {
		t.Errorf("DialectHandle() = %v, want Snowflake", d.DialectHandle())
	}
}
