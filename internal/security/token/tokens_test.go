package token

import (
	"strconv"
	"strings"
	"testing"
)

func TestGenerateRandomToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateRandomToken()
	if err != nil {
		t.Fatalf("GenerateRandomToken: %v", err)
	}
	// 32 bytes of entropy, base64url without padding
	if len(tok) != 43 {
		t.Fatalf("token length = %d, want 43", len(tok))
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token %q contains non-url-safe characters", tok)
	}
}

func TestGenerateRandomTokenUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := GenerateRandomToken()
		if err != nil {
			t.Fatalf("GenerateRandomToken: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	t.Parallel()

	// Known SHA-256/base64url pairs, verifiable with any PKCE tool.
	cases := []struct {
		verifier string
		want     string
	}{
		{"test-code-verifier", "0FLIKahrX7kqxncwhV5WD82lu_wi5GA8FsRSLubaOpU"},
		{"another-verifier", "ioUtroeXJeFk4m9JCRbj550sEciRBF4Rj3vONdfv63Y"},
	}
	for _, c := range cases {
		if got := GenerateCodeChallenge(c.verifier); got != c.want {
			t.Errorf("GenerateCodeChallenge(%q) = %q, want %q", c.verifier, got, c.want)
		}
	}
}

func TestGenerateCodeChallengeDeterministic(t *testing.T) {
	t.Parallel()

	a := GenerateCodeChallenge("some-verifier")
	b := GenerateCodeChallenge("some-verifier")
	if a != b {
		t.Fatalf("same verifier produced different challenges: %q vs %q", a, b)
	}
}

func TestGenerateRandomNumber(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		code, err := GenerateRandomNumber(6)
		if err != nil {
			t.Fatalf("GenerateRandomNumber: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q length = %d, want 6 (zero padding)", code, len(code))
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < 0 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGenerateRandomNumberRejectsBadWidth(t *testing.T) {
	t.Parallel()

	if _, err := GenerateRandomNumber(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
	if _, err := GenerateRandomNumber(-3); err == nil {
		t.Fatal("expected error for negative digits")
	}
}

func TestSHA256Base64URL(t *testing.T) {
	t.Parallel()

	got := SHA256Base64URL("test-code-verifier")
	if got != "0FLIKahrX7kqxncwhV5WD82lu_wi5GA8FsRSLubaOpU" {
		t.Fatalf("SHA256Base64URL = %q", got)
	}
	if SHA256Base64URL("a") == SHA256Base64URL("b") {
		t.Fatal("distinct inputs hashed equal")
	}
}
