package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"strings"

	"golang.org/x/text/cases"

	"voxlock/internal/services"
)

const keySize = 32 // AES-256

// PhraseCipher pairs a sealed secret phrase with the key that sealed it.
// The two are always generated and stored together; ciphertext without its
// key is meaningless. The GCM nonce is prepended to the ciphertext.
type PhraseCipher struct {
	Ciphertext []byte
	Key        []byte
}

// Normalize canonicalizes a phrase or transcript for comparison: trimmed and
// case-folded.
func Normalize(phrase string) string {
	return cases.Fold().String(strings.TrimSpace(phrase))
}

// Seal encrypts the normalized phrase under a fresh random key. The key is
// never reused across identities or re-enrollments. Any failure yields no
// partial artifact.
func Seal(phrase string) (*PhraseCipher, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, services.Wrap(services.ErrCrypto, "vault", "seal", "key generation failed", err)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, services.Wrap(services.ErrCrypto, "vault", "seal", "cipher construction failed", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, services.Wrap(services.ErrCrypto, "vault", "seal", "nonce generation failed", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(Normalize(phrase)), nil)
	return &PhraseCipher{Ciphertext: sealed, Key: key}, nil
}

// Unseal decrypts a sealed phrase. Any tag mismatch, malformed ciphertext,
// or wrong key fails closed with a crypto error; a plausible phrase is never
// returned from bad input.
func Unseal(c *PhraseCipher) (string, error) {
	if c == nil || len(c.Ciphertext) == 0 || len(c.Key) == 0 {
		return "", services.Wrap(services.ErrCrypto, "vault", "unseal", "missing cipher material", nil)
	}

	aead, err := newAEAD(c.Key)
	if err != nil {
		return "", services.Wrap(services.ErrCrypto, "vault", "unseal", "cipher construction failed", err)
	}

	if len(c.Ciphertext) < aead.NonceSize() {
		return "", services.Wrap(services.ErrCrypto, "vault", "unseal", "ciphertext too short", nil)
	}
	nonce := c.Ciphertext[:aead.NonceSize()]
	sealed := c.Ciphertext[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", services.Wrap(services.ErrCrypto, "vault", "unseal", "decryption failed", err)
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
