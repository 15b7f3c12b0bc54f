package cli

import "testing"

func TestRandomPassword_DefaultLength(t *testing.T) {
	pw, err := randomPassword(0)
	if err != nil {
		t.Fatalf("randomPassword: %v", err)
	}
	if len(pw) == 0 {
		t.Fatal("expected non-empty password")
	}
}

func TestRandomPassword_Unique(t *testing.T) {
	a, err := randomPassword(16)
	if err != nil {
		t.Fatalf("randomPassword: %v", err)
	}
	b, err := randomPassword(16)
	if err != nil {
		t.Fatalf("randomPassword: %v", err)
	}
	if a == b {
		t.Fatal("expected two random passwords to differ")
	}
}
