package utils

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Secret@123", ""},
		{"valid with comma", "Passw0rd,", ""},
		{"too short", "Ab@1", "at least 8 characters"},
		{"no uppercase", "secret@123", "uppercase letter"},
		{"no digit", "Secret@abc", "one number"},
		{"no special", "Secret123", "special character"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("expected %q to be accepted, got %v", tc.password, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Secret@123" {
		t.Fatal("hash equals the plaintext password")
	}
	if !CheckPassword(hash, "Secret@123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "Wrong@123") {
		t.Error("wrong password accepted")
	}
}
