package receipt

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func sampleClaims() Claims {
	return Claims{
		RunID:       "run-1",
		Iterations:  3,
		SaltCount:   2,
		TimeCost:    3,
		MemoryKiB:   65536,
		Parallelism: 2,
		KeyLength:   32,
		Length:      12,
		MinLower:    1,
		MinDigits:   1,
	}
}

func TestIssueAndParseEd25519(t *testing.T) {
	_, priv := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, Issuer: "argonchain"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.Issue(sampleClaims())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.RunID != "run-1" || claims.Iterations != 3 || claims.SaltCount != 2 || claims.MemoryKiB != 65536 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "argonchain" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestVerifyOnlyManagerCannotIssue(t *testing.T) {
	pub, priv := newEdKeys(t)
	signer, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	verifier, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	if verifier.CanIssue() {
		t.Fatal("expected verify-only manager to refuse issuing")
	}
	if _, err := verifier.Issue(sampleClaims()); err == nil {
		t.Fatal("expected issue without private key to fail")
	}

	token, err := signer.Issue(sampleClaims())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); err != nil {
		t.Fatalf("expected verifier to accept signer token: %v", err)
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := sampleClaims()
	claims.IssuedAt = gjwt.NewNumericDate(time.Now())
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims)
	token, err := tok.SignedString([]byte(strings.Repeat("k", 32)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	key := []byte(strings.Repeat("s", 32))
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: key})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.Issue(sampleClaims())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte(strings.Repeat("o", 32))})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	key := []byte(strings.Repeat("s", 32))
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: key})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := sampleClaims()
	claims.IssuedAt = gjwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
	claims.ExpiresAt = gjwt.NewNumericDate(time.Now().Add(-time.Hour))
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims)
	token, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired receipt to be rejected")
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	if _, err := NewManager(Config{SigningMethod: "rs256"}); err == nil {
		t.Fatal("expected unsupported method to fail")
	}
	if _, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte("short")}); err == nil {
		t.Fatal("expected short hmac key to fail")
	}
	if _, err := NewManager(Config{SigningMethod: MethodEd25519}); err == nil {
		t.Fatal("expected ed25519 without keys to fail")
	}
	if _, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: []byte("bad")}); err == nil {
		t.Fatal("expected malformed public key to fail")
	}
}
