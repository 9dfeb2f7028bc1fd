package security

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single alphabet character", length: 8, alphabet: "X"},
		{name: "password alphabet", length: 64, alphabet: TemporaryPasswordAlphabet},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d, want %d", test.length, test.alphabet, len(got), test.length)
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced char %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}

func TestTemporaryPasswordMinimumLengthAndClasses(t *testing.T) {
	t.Parallel()

	for attempt := 0; attempt < 20; attempt++ {
		password, err := TemporaryPassword(4)
		if err != nil {
			t.Fatalf("TemporaryPassword returned error: %v", err)
		}
		if len(password) != minTemporaryPasswordLength {
			t.Fatalf("TemporaryPassword minimum len = %d, want %d", len(password), minTemporaryPasswordLength)
		}
		if !strings.ContainsAny(password, upperAlphabet) || !strings.ContainsAny(password, lowerAlphabet) || !strings.ContainsAny(password, digitAlphabet) {
			t.Fatalf("TemporaryPassword %q misses a character class", password)
		}
	}
}
