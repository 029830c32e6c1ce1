// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"
)

func TestGenerateOTP(t *testing.T) {
	for _, digits := range []int{4, 6, 8} {
		code, err := GenerateOTP(digits)
		if err != nil {
			t.Fatalf("GenerateOTP(%d) error: %v", digits, err)
		}
		if len(code) != digits {
			t.Errorf("GenerateOTP(%d) = %q, want %d digits", digits, code, digits)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Errorf("GenerateOTP(%d) = %q, contains non-digit", digits, code)
				break
			}
		}
	}
}

func TestHashToken(t *testing.T) {
	hash := HashToken("123456")

	if !CompareTokenHash("123456", hash) {
		t.Error("CompareTokenHash rejected the original token")
	}
	if CompareTokenHash("654321", hash) {
		t.Error("CompareTokenHash accepted a different token")
	}
	if hash == HashToken("other") {
		t.Error("distinct tokens produced the same hash")
	}
}

func TestHashIdentity(t *testing.T) {
	const nin = "12345678901"

	encoded, err := HashIdentity(nin)
	if err != nil {
		t.Fatalf("HashIdentity error: %v", err)
	}
	if encoded == nin {
		t.Fatal("HashIdentity returned the raw identity number")
	}

	ok, err := VerifyIdentity(nin, encoded)
	if err != nil {
		t.Fatalf("VerifyIdentity error: %v", err)
	}
	if !ok {
		t.Error("VerifyIdentity rejected the original identity number")
	}

	ok, err = VerifyIdentity("10987654321", encoded)
	if err != nil {
		t.Fatalf("VerifyIdentity error: %v", err)
	}
	if ok {
		t.Error("VerifyIdentity accepted a different identity number")
	}
}

func TestVerifyIdentityMalformedHash(t *testing.T) {
	if _, err := VerifyIdentity("12345678901", "not-a-hash"); err == nil {
		t.Error("VerifyIdentity accepted a malformed hash")
	}
}
