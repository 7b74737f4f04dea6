package token

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// encoding is a lowercased base32 alphabet without padding, chosen so that
// tokens are URL-safe and case-insensitive-file-system-safe.
var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

const randomLength = 16

// New generates a new token prefixed by the provided prefix, of the form
// `prefix_3n2hqm4dkcuyjtmb66iuc2vo`. Tokens are unique with overwhelming
// probability (128 bits of entropy).
func New(
	prefix string,
) string {
	b := make([]byte, randomLength)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return strings.Join([]string{prefix, encoding.EncodeToString(b)}, "_")
}

// RandStr generates a bare random string (no prefix).
func RandStr() string {
	b := make([]byte, randomLength)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return encoding.EncodeToString(b)
}
