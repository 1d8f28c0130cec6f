package auth

import "testing"

func TestMintHashAndVerifyToken(t *testing.T) {
	t.Parallel()

	token, err := MintToken()
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	digest, err := HashToken(token)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if !VerifyToken(token, digest) {
		t.Fatalf("expected token verification to succeed")
	}
	if VerifyToken("wrong-token", digest) {
		t.Fatalf("did not expect wrong token to verify")
	}
}

func TestFingerprintIsStable(t *testing.T) {
	t.Parallel()

	if Fingerprint("abc") != Fingerprint(" abc ") {
		t.Fatalf("expected fingerprint to ignore surrounding whitespace")
	}
	if Fingerprint("abc") == Fingerprint("abd") {
		t.Fatalf("expected distinct tokens to fingerprint differently")
	}
}

func TestNormalizeTokenName(t *testing.T) {
	t.Parallel()

	if got := NormalizeTokenName(" Gateway "); got != "gateway" {
		t.Fatalf("unexpected normalized token name: %q", got)
	}
}
