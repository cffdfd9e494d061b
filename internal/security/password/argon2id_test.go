package password

import (
	"strings"
	"testing"
)

// Small parameters keep the test fast; the format is identical.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	phc, err := Hash(testParams, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=") {
		t.Fatalf("unexpected PHC prefix: %q", phc)
	}

	if !Verify("correct horse battery staple", phc) {
		t.Fatal("correct password rejected")
	}
	if Verify("wrong password", phc) {
		t.Fatal("wrong password accepted")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	t.Parallel()

	a, err := Hash(testParams, "same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(testParams, "same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical; salt is not random")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, phc := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=1,p=1$onlyfivefields",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	} {
		if Verify("anything", phc) {
			t.Errorf("malformed hash %q accepted", phc)
		}
	}
}
