package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("eyJhbGciOiJIUzI1NiJ9.test.sig"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "eyJhbGciOiJIUzI1NiJ9.test.sig" {
		t.Errorf("GetToken() = %q", got)
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestGetTokenNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteToken()

	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("abc"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("After DeleteToken(), GetToken() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteToken(); err != ErrNotFound {
		t.Errorf("second DeleteToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
