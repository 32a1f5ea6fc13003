package security

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf16"
)

const wideLegacyPrefix = "u16:"

var ErrEmptyKey = errors.New("cipher key must not be empty")

// LegacyXOR reads and writes tokens stored by the first generation of the product:
// UTF-16 code units XORed against a repeating key, then base64 encoded one byte per unit.
// Units that do not fit a byte after XOR are written two bytes each under a "u16:" prefix,
// which base64 output can never start with.
type LegacyXOR struct {
	key []uint16
}

func NewLegacyXOR(key string) (*LegacyXOR, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &LegacyXOR{key: utf16.Encode([]rune(key))}, nil
}

func (l *LegacyXOR) xor(units []uint16) {
	for i := range units {
		units[i] ^= l.key[i%len(l.key)]
	}
}

func (l *LegacyXOR) Encrypt(plaintext string) string {
	units := utf16.Encode([]rune(plaintext))
	l.xor(units)

	wide := false
	for _, u := range units {
		if u > 0xFF {
			wide = true
			break
		}
	}
	if !wide {
		buf := make([]byte, len(units))
		for i, u := range units {
			buf[i] = byte(u)
		}
		return base64.StdEncoding.EncodeToString(buf)
	}

	buf := make([]byte, 2*len(units))
	for i, u := range units {
		buf[2*i] = byte(u >> 8)
		buf[2*i+1] = byte(u)
	}
	return wideLegacyPrefix + base64.StdEncoding.EncodeToString(buf)
}

func (l *LegacyXOR) Decrypt(blob string) (string, error) {
	wide := strings.HasPrefix(blob, wideLegacyPrefix)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(blob, wideLegacyPrefix))
	if err != nil {
		return "", ErrMalformed
	}

	var units []uint16
	if wide {
		if len(raw)%2 != 0 {
			return "", ErrMalformed
		}
		units = make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
		}
	} else {
		units = make([]uint16, len(raw))
		for i, b := range raw {
			units[i] = uint16(b)
		}
	}
	l.xor(units)
	return string(utf16.Decode(units)), nil
}
