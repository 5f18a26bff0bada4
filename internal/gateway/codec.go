package gateway

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/hex"

	"github.com/urbanserve/payments/internal/domain"
)

// The gateway protocol mandates a constant IV shared by every transaction.
// This makes identical plaintexts encrypt identically, which is a known CBC
// weakness, but the merchant side cannot change it without breaking
// interoperability. Do not replace this with a random IV.
var fixedIV = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}

// Codec performs the symmetric transform between the flat key-value payload
// and the hex-encoded ciphertext exchanged with the gateway. It is pure and
// safe for concurrent use.
type Codec struct {
	key []byte
}

// NewCodec derives the AES-128 key from the merchant working key using the
// gateway's MD5 digest scheme.
func NewCodec(workingKey string) *Codec {
	sum := md5.Sum([]byte(workingKey))
	return &Codec{key: sum[:]}
}

// Encrypt pads, encrypts and hex-encodes the plaintext. Output is
// deterministic for a given plaintext because of the fixed IV.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeEncryptFailed, "cipher init failed", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, fixedIV).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(ciphertext), nil
}

// Decrypt hex-decodes, decrypts and strips padding. It fails with a
// CRYPTO_DECRYPT_FAILED error when the input is not valid hex, is not a
// multiple of the block size, or the padding does not validate. Error
// messages never include the raw payload or key material.
func (c *Codec) Decrypt(encoded string) (string, error) {
	ciphertext, err := hex.DecodeString(encoded)
	if err != nil {
		return "", domain.NewDomainError(domain.ErrorCodeDecryptFailed, "payload is not valid hex")
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", domain.NewDomainError(domain.ErrorCodeDecryptFailed, "payload length is not a multiple of the block size")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeDecryptFailed, "cipher init failed", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, fixedIV).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		return "", domain.NewDomainError(domain.ErrorCodeDecryptFailed, "padding validation failed")
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, false
		}
	}
	return data[:len(data)-padLen], true
}
