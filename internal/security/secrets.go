// Package security generates secrets handed out to users.
package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	upperAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijkmnopqrstuvwxyz"
	digitAlphabet = "23456789"

	// TemporaryPasswordAlphabet omits characters that are easy to misread.
	TemporaryPasswordAlphabet = upperAlphabet + lowerAlphabet + digitAlphabet

	minTemporaryPasswordLength = 8
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	value := make([]byte, length)
	for index := range value {
		char, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		value[index] = char
	}
	return string(value), nil
}

// TemporaryPassword returns a password of at least eight characters that
// contains an upper-case letter, a lower-case letter and a digit.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPasswordLength {
		length = minTemporaryPasswordLength
	}

	for {
		candidate, err := RandomString(length, TemporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if strings.ContainsAny(candidate, upperAlphabet) &&
			strings.ContainsAny(candidate, lowerAlphabet) &&
			strings.ContainsAny(candidate, digitAlphabet) {
			return candidate, nil
		}
	}
}

func randomChar(alphabet string) (byte, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[position.Int64()], nil
}
