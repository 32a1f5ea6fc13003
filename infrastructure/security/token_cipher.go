package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealedPrefix = "v2."

var (
	ErrTampered       = errors.New("token ciphertext failed authentication")
	ErrUnknownKey     = errors.New("token sealed with an unknown key id")
	ErrMalformed      = errors.New("malformed token ciphertext")
	ErrNoLegacyKey    = errors.New("legacy token found but no legacy key configured")
	ErrNoKeys         = errors.New("token key ring is empty")
	ErrUnknownPrimary = errors.New("primary key id is not in the key ring")

	keyIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
)

// Key is one entry of the token key ring.
type Key struct {
	ID     string
	Secret []byte
}

// TokenCipher seals OAuth tokens with XChaCha20-Poly1305 under the primary key and opens
// blobs sealed by any key still in the ring. Blobs look like "v2.<kid>.<base64url(nonce|ct)>".
// Blobs without the prefix are handed to the legacy reader when one is configured.
type TokenCipher struct {
	primary string
	aeads   map[string]cipher.AEAD
	legacy  *LegacyXOR
}

func NewTokenCipher(keys []Key, primaryID string, legacy *LegacyXOR) (*TokenCipher, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if primaryID == "" {
		primaryID = keys[0].ID
	}

	aeads := make(map[string]cipher.AEAD, len(keys))
	for _, k := range keys {
		if !keyIDPattern.MatchString(k.ID) {
			return nil, fmt.Errorf("invalid key id %q", k.ID)
		}
		if len(k.Secret) == 0 {
			return nil, fmt.Errorf("key %q: %w", k.ID, ErrEmptyKey)
		}
		aead, err := deriveAEAD(k)
		if err != nil {
			return nil, err
		}
		aeads[k.ID] = aead
	}
	if _, ok := aeads[primaryID]; !ok {
		return nil, ErrUnknownPrimary
	}

	return &TokenCipher{primary: primaryID, aeads: aeads, legacy: legacy}, nil
}

func deriveAEAD(k Key) (cipher.AEAD, error) {
	derived := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, k.Secret, nil, []byte("creator-ops/token-cipher/"+k.ID))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, err
	}
	return chacha20poly1305.NewX(derived)
}

// ParseKeyRing parses "kid:base64secret,kid2:base64secret".
func ParseKeyRing(ring string) ([]Key, error) {
	var keys []Key
	for _, entry := range strings.Split(ring, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, encoded, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("key ring entry %q: expected kid:secret", entry)
		}
		secret, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("key ring entry %q: %w", id, err)
		}
		keys = append(keys, Key{ID: id, Secret: secret})
	}
	return keys, nil
}

func (c *TokenCipher) PrimaryKeyID() string { return c.primary }

func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	aead := c.aeads[c.primary]
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), []byte(c.primary))
	return sealedPrefix + c.primary + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *TokenCipher) Decrypt(blob string) (string, error) {
	if !strings.HasPrefix(blob, sealedPrefix) {
		if c.legacy == nil {
			return "", ErrNoLegacyKey
		}
		return c.legacy.Decrypt(blob)
	}

	kid, payload, ok := strings.Cut(blob[len(sealedPrefix):], ".")
	if !ok {
		return "", ErrMalformed
	}
	aead, ok := c.aeads[kid]
	if !ok {
		return "", ErrUnknownKey
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(raw) < aead.NonceSize() {
		return "", ErrMalformed
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], []byte(kid))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}

// NeedsRotation reports whether blob was not sealed by the current primary key.
func (c *TokenCipher) NeedsRotation(blob string) bool {
	return !strings.HasPrefix(blob, sealedPrefix+c.primary+".")
}
