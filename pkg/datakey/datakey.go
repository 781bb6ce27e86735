// Package datakey encrypts sensitive column values (provider API keys) with
// the AES-256-GCM data key supplied to the service in AIACT_DATA_KEY.
//
// Packed ciphertexts have the layout:
//
//	'G' | tag (16 bytes) | iv (12 bytes) | ciphertext
//
// The additional authenticated data binds a ciphertext to the row it was
// written for, so a value copied to another row fails to decrypt.
package datakey

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize      = 32
	ivSize       = 12
	tagSize      = aes.BlockSize
	versionMagic = byte('G')
)

var ErrMalformedCiphertext = errors.New("datakey: malformed ciphertext")

type Cipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

type symmetric struct {
	aesgcm gocipher.AEAD
}

// New returns a Cipher for a 256-bit key.
func New(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("datakey: key must be %d bytes, got %d", KeySize, len(key))
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := gocipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &symmetric{aesgcm: aesgcm}, nil
}

// FromBase64 decodes a standard base64 key and returns its Cipher.
func FromBase64(encoded string) (Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("datakey: bad base64: %w", err)
	}
	return New(key)
}

// Generate returns a fresh random 256-bit key.
func Generate() ([]byte, error) {
	return RandomBytes(KeySize)
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

func (s *symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	cipherText, iv, err := unpack(packedText)
	if err != nil {
		return nil, err
	}

	return s.aesgcm.Open(nil, iv, cipherText, aad)
}

func (s *symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	// Random nonces are safe for fewer than 2^32 messages per key.
	nonce, err := RandomBytes(ivSize)
	if err != nil {
		return nil, err
	}

	return pack(s.aesgcm.Seal(nil, nonce, plainText, aad), nonce), nil
}

func pack(cipherTextWithTag []byte, iv []byte) []byte {
	tagStart := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStart:]
	cipherText := cipherTextWithTag[:tagStart]

	data := make([]byte, 0, 1+tagSize+ivSize+len(cipherText))
	data = append(data, versionMagic)
	data = append(data, tag...)
	data = append(data, iv[:ivSize]...)
	return append(data, cipherText...)
}

func unpack(packedText []byte) ([]byte, []byte, error) {
	if len(packedText) < 1+tagSize+ivSize || packedText[0] != versionMagic {
		return nil, nil, ErrMalformedCiphertext
	}

	tag := packedText[1 : 1+tagSize]
	iv := packedText[1+tagSize : 1+tagSize+ivSize]
	body := packedText[1+tagSize+ivSize:]

	cipherText := make([]byte, 0, len(body)+tagSize)
	cipherText = append(cipherText, body...)
	cipherText = append(cipherText, tag...)

	return cipherText, iv, nil
}
