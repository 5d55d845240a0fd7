package plexstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Slot values are AES-256-GCM encrypted under a key derived from the
// store passphrase and a per-record random salt.

const recordVersion = 1

// ErrInvalidKey indicates the stored data could not be decrypted with the
// configured passphrase.
var ErrInvalidKey = errors.New("invalid key")

// sealedRecord is the on-disk shape of one slot.
type sealedRecord struct {
	Salt    []byte `json:"salt"`
	Data    []byte `json:"data"`
	Version int    `json:"version"`
}

func seal(value []byte, passphrase string) (sealedRecord, error) {
	record := sealedRecord{
		Version: recordVersion,
		Salt:    make([]byte, sha256.Size),
	}
	if _, err := rand.Read(record.Salt); err != nil {
		return sealedRecord{}, fmt.Errorf("generate salt: %w", err)
	}
	aesGCM, err := cipherFor(passphrase, record.Salt)
	if err != nil {
		return sealedRecord{}, err
	}
	nonce := make([]byte, aesGCM.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return sealedRecord{}, fmt.Errorf("generate nonce: %w", err)
	}
	record.Data = aesGCM.Seal(nonce, nonce, value, nil)
	return record, nil
}

func open(record sealedRecord, passphrase string) ([]byte, error) {
	if record.Version != recordVersion {
		return nil, fmt.Errorf("unsupported slot version %d", record.Version)
	}
	aesGCM, err := cipherFor(passphrase, record.Salt)
	if err != nil {
		return nil, err
	}
	nonceSize := aesGCM.NonceSize()
	if len(record.Data) < nonceSize {
		return nil, errors.New("invalid ciphertext")
	}
	nonce, ciphertext := record.Data[:nonceSize], record.Data[nonceSize:]
	value, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return value, nil
}

func cipherFor(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), salt, nil), key); err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
