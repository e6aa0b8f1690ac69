package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// LoadPublicKey загружает публичный RSA ключ из файла в формате PEM (PKIX).
//
// filePath — путь до файла с публичным ключом.
func LoadPublicKey(filePath string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return ParsePublicKey(keyData)
}

// ParsePublicKey разбирает публичный RSA ключ в формате PEM.
func ParsePublicKey(keyData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block containing the key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}

	return rsaKey, nil
}

// ParsePrivateKey разбирает приватный RSA ключ в формате PEM (PKCS#1).
func ParsePrivateKey(keyData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block containing the key")
	}

	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return priv, nil
}

// maxChunk возвращает максимальный размер открытого блока для RSA-OAEP с SHA-256.
func maxChunk(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha256.Size - 2
}

// EncryptData шифрует данные произвольной длины публичным ключом.
//
// Данные делятся на блоки допустимого для OAEP размера; каждый блок шифруется
// отдельно, шифротексты идут подряд, по pub.Size() байт каждый.
func EncryptData(data []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	chunk := maxChunk(publicKey)
	if chunk <= 0 {
		return nil, fmt.Errorf("rsa key is too small for OAEP")
	}

	var out bytes.Buffer
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		enc, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, data[start:end], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt data: %w", err)
		}
		out.Write(enc)
	}
	return out.Bytes(), nil
}

// DecryptData расшифровывает данные, зашифрованные EncryptData.
func DecryptData(encryptedData []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	size := privateKey.Size()
	if len(encryptedData)%size != 0 {
		return nil, fmt.Errorf("encrypted data length %d is not a multiple of %d", len(encryptedData), size)
	}

	var out bytes.Buffer
	for start := 0; start < len(encryptedData); start += size {
		dec, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, encryptedData[start:start+size], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt data: %w", err)
		}
		out.Write(dec)
	}
	return out.Bytes(), nil
}
