// AngelaMos | 2026
// password_test.go

package core

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hemligt123")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Errorf("hash = %q", hash)
	}

	other, _ := HashPassword("hemligt123")
	if other == hash {
		t.Error("two hashes of the same password are identical")
	}

	for password, want := range map[string]bool{"hemligt123": true, "Hemligt123": false, "": false} {
		got, err := VerifyPassword(password, hash)
		if err != nil || got != want {
			t.Errorf("VerifyPassword(%q) = %v, %v; want %v", password, got, err, want)
		}
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$a2V5",
	} {
		if _, err := VerifyPassword("x", h); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrInvalidHash", h, err)
		}
	}
}

func TestLegacyBcryptIsUpgraded(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("borka2024"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	valid, upgraded, err := VerifyPasswordWithRehash("borka2024", string(legacy))
	if err != nil || !valid {
		t.Fatalf("legacy verify = %v, %v", valid, err)
	}
	if !strings.HasPrefix(upgraded, "$argon2id$") {
		t.Fatalf("upgraded = %q", upgraded)
	}
	if ok, _ := VerifyPassword("borka2024", upgraded); !ok {
		t.Error("upgraded hash does not verify")
	}

	valid, upgraded, err = VerifyPasswordWithRehash("wrong", string(legacy))
	if err != nil || valid || upgraded != "" {
		t.Errorf("wrong password = %v, %q, %v", valid, upgraded, err)
	}
}

func TestOutdatedArgonParamsAreUpgraded(t *testing.T) {
	old := argonHash{
		params: argonParams{memory: 32 * 1024, time: 2, threads: 2, keyLen: 32},
		salt:   []byte("0123456789abcdef"),
	}
	old.key = deriveKey("hemligt123", old.salt, old.params)

	valid, upgraded, err := VerifyPasswordWithRehash("hemligt123", old.String())
	if err != nil || !valid || upgraded == "" {
		t.Fatalf("VerifyPasswordWithRehash = %v, %q, %v", valid, upgraded, err)
	}

	current, _ := HashPassword("hemligt123")
	if _, again, _ := VerifyPasswordWithRehash("hemligt123", current); again != "" {
		t.Error("current hash flagged for rehash")
	}
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	empty := ""
	for _, h := range []*string{nil, &empty} {
		valid, upgraded, err := VerifyPasswordTimingSafe("anything", h)
		if valid || upgraded != "" || err != nil {
			t.Errorf("no hash = %v, %q, %v", valid, upgraded, err)
		}
	}
}

func TestSessionTokens(t *testing.T) {
	a, err := GenerateSessionToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateSessionToken()

	if a == b {
		t.Error("tokens repeat")
	}
	if len(a) != 43 || strings.ContainsAny(a, "+/=") {
		t.Errorf("token %q is not 32 bytes of raw URL base64", a)
	}

	if HashToken(a) != HashToken(a) || HashToken(a) == HashToken(b) {
		t.Error("HashToken is not a stable per-token key")
	}
	if len(HashToken(a)) != 64 {
		t.Errorf("hash length = %d", len(HashToken(a)))
	}
}
