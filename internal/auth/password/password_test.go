package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hashed, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", hashed)
	}
	if !Verify("correct horse battery staple", hashed) {
		t.Fatal("expected matching password to verify")
	}
	if Verify("wrong password", hashed) {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashUniqueSalts(t *testing.T) {
	first, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyGarbageHash(t *testing.T) {
	if Verify("anything", "not-a-hash") {
		t.Fatal("expected malformed hash to fail verification")
	}
	if Verify("anything", "") {
		t.Fatal("expected empty hash to fail verification")
	}
}
