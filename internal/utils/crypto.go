package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

var encryptionKey []byte

func init() {
	hexKey := os.Getenv("ENCRYPTION_KEY_HEX")
	if hexKey == "" {
		// Development-only fallback key. Production deployments must set
		// ENCRYPTION_KEY_HEX; this key is public by definition.
		fmt.Println("SECURITY WARNING: ENCRYPTION_KEY_HEX not set, using the default development key. DO NOT use in production.")
		hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	}
	var err error
	encryptionKey, err = hex.DecodeString(hexKey)
	if err != nil {
		panic(fmt.Sprintf("failed to decode ENCRYPTION_KEY_HEX: %v. The key must be a 64-character hex string.", err))
	}
	if len(encryptionKey) != 32 { // AES-256
		panic("ENCRYPTION_KEY_HEX must be 32 bytes (64 hex characters) for AES-256.")
	}
}

// Encrypt encrypts data using AES-GCM.
func Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt decrypts data using AES-GCM.
func Decrypt(ciphertextHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, encryptedMessage := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, encryptedMessage, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
