package security

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q is not in bcrypt format", hash)
	}

	if !CheckPassword("Passw0rd!", hash) {
		t.Error("correct password was rejected")
	}
	if CheckPassword("Passw0rd?", hash) {
		t.Error("wrong password was accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("Passw0rd!", "not-a-bcrypt-hash") {
		t.Error("malformed hash must never verify")
	}
	if CheckPassword("Passw0rd!", "") {
		t.Error("empty hash must never verify")
	}
}
