package auth

import "testing"

func TestParse(t *testing.T) {
	table, err := Parse("admin,s3cret;reader,hunter2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pw, ok := table.Password("admin"); !ok || pw != "s3cret" {
		t.Errorf("Password(admin) = (%q, %v), want (s3cret, true)", pw, ok)
	}
	if pw, ok := table.Password("reader"); !ok || pw != "hunter2" {
		t.Errorf("Password(reader) = (%q, %v), want (hunter2, true)", pw, ok)
	}
}

func TestParse_MissingUser(t *testing.T) {
	table, err := Parse("admin,s3cret")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := table.Password("nobody"); ok {
		t.Error("expected missing user to report ok=false")
	}
}

func TestParse_TrailingSemicolonAndSpaces(t *testing.T) {
	table, err := Parse(" admin, s3cret ; reader,hunter2; ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pw, ok := table.Password("admin"); !ok || pw != " s3cret" {
		t.Errorf("Password(admin) = (%q, %v)", pw, ok)
	}
}

func TestParse_RejectsMalformedEntry(t *testing.T) {
	if _, err := Parse("admin"); err == nil {
		t.Fatal("expected error for entry missing a password")
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty AUTH")
	}
}
